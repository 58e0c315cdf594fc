package discord

import "github.com/bwmarrin/discordgo"

var (
	minSeconds  = float64(5)
	maxSeconds  = float64(86400)
	dmPermFalse = false
)

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:         "blacklist",
		Description:  "Manage auto-disconnect blacklist (exemptions)",
		DMPermission: &dmPermFalse,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Exempt a user from auto-disconnect",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "user_id", Description: "User ID or mention", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Optional reason"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a user from the blacklist",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "user_id", Description: "User ID or mention", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List blacklisted users",
			},
		},
	},
	{
		Name:         "exempt",
		Description:  "Request or grant temporary auto-disconnect exemptions",
		DMPermission: &dmPermFalse,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "request",
				Description: "Request a temporary exemption",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "How long to exempt (seconds)", Required: true, MinValue: &minSeconds, MaxValue: maxSeconds},
					{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Optional reason"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "grant",
				Description: "Grant a temporary exemption",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to exempt", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "How long to exempt (seconds)", Required: true, MinValue: &minSeconds, MaxValue: maxSeconds},
					{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Optional reason"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deny",
				Description: "Deny a temporary exemption request",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to deny", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Optional reason"},
				},
			},
		},
	},
	{
		Name:        "ver",
		Description: "Show current bot version and GitHub release",
	},
	{
		Name:         "scan",
		Description:  "Re-scan all voice channels for self-deafened members",
		DMPermission: &dmPermFalse,
	},
}
