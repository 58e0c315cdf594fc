package discord

import "github.com/bwmarrin/discordgo"

// requireOwner: gate de los comandos administrativos. Pasa el owner
// configurado (o resuelto de application info) y, si está configurado, el
// rol admin inyectado en construcción.
func (r *Router) requireOwner(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if uid := interactionUserID(ic); uid != "" && uid == r.ownerID {
		return true
	}
	if r.adminRoleID != "" && ic.Member != nil {
		for _, rid := range ic.Member.Roles {
			if rid == r.adminRoleID {
				return true
			}
		}
	}
	ReplyEphemeral(s, ic, "🔒 Only the bot owner can use this command.")
	return false
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}
