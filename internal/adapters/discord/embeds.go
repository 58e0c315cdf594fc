package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/akikohatsune/simplekick/internal/app/service"
)

const (
	colorGrey   = 0x99AAB5
	colorGreen  = 0x57F287
	colorOrange = 0xE67E22
	colorBlue   = 0x3498DB
	colorRed    = 0xED4245
)

// VersionEmbed arma la respuesta de /ver.
func VersionEmbed(st service.VersionStatus, checkErr error) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Version"}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Bot Version", Value: fmt.Sprintf("`%s`", st.Current), Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "GitHub Repo", Value: fmt.Sprintf("`%s`", st.Repo), Inline: true,
	})

	status := ""
	color := colorGrey
	switch {
	case checkErr != nil:
		status, color = "Failed to fetch latest release.", colorRed
	case st.Latest == "":
		status = "No release found."
	default:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Latest Release", Value: fmt.Sprintf("`%s`", st.Latest), Inline: true,
		})
		if st.ReleaseURL != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Release URL", Value: fmt.Sprintf("[Open release](%s)", st.ReleaseURL),
			})
		}
		switch {
		case st.Comparison == nil:
			status = "Cannot compare version format."
		case *st.Comparison < 0:
			status, color = "Update available.", colorOrange
		case *st.Comparison == 0:
			status, color = "Up to date.", colorGreen
		default:
			status, color = "Local version is newer than latest release.", colorBlue
		}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Status", Value: status})
	embed.Color = color
	return embed
}
