package discord

import (
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

var reMention = regexp.MustCompile(`^<@!?(\d+)>$`)

// ParseUserID acepta un ID numérico crudo o una mención <@123> / <@!123>.
func ParseUserID(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if m := reMention.FindStringSubmatch(value); len(m) == 2 {
		return m[1], true
	}
	if value == "" {
		return "", false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return value, true
}

func subcmd(ic *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, o.Options
		}
	}
	return "", nil
}

func optStr(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func optInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return o.IntValue()
		}
	}
	return 0
}

func optUser(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionUser {
			return o.UserValue(s)
		}
	}
	return nil
}

func fmtEpochDate(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}
