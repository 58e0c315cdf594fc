package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/akikohatsune/simplekick/internal/app/service"
)

type Router struct {
	s           *discordgo.Session
	syncGuildID string // "" = comandos globales
	ownerID     string
	adminRoleID string

	guard  *service.GuardService
	exempt *service.ExemptionService
	update *service.UpdateService
}

func NewRouter(
	s *discordgo.Session,
	syncGuildID, ownerID, adminRoleID string,
	guard *service.GuardService,
	exempt *service.ExemptionService,
	update *service.UpdateService,
) *Router {
	return &Router{
		s:           s,
		syncGuildID: syncGuildID,
		ownerID:     ownerID,
		adminRoleID: adminRoleID,
		guard:       guard,
		exempt:      exempt,
		update:      update,
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.syncGuildID, cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (r *Router) Handlers() {
	// Slash commands
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		log.Info().
			Str("command", data.Name).
			Str("user", interactionUserID(ic)).
			Str("guild", ic.GuildID).
			Msg("slash command")

		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("command", data.Name).Msg("panic in slash handler")
				ReplyEphemeral(s, ic, "⚠️ Something went wrong.")
			}
		}()

		_ = DeferEphemeral(s, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		switch data.Name {
		case "ping":
			ReplyEphemeral(s, ic, "🏓 pong")

		case "blacklist":
			if !r.requireOwner(s, ic) {
				return
			}
			r.handleBlacklist(ctx, s, ic)

		case "exempt":
			r.handleExempt(ctx, s, ic)

		case "ver":
			st, err := r.update.Status(ctx)
			if err != nil {
				log.Error().Err(err).Msg("release check failed")
			}
			ReplyEphemeral(s, ic, "", VersionEmbed(st, err))

		case "scan":
			if !r.requireOwner(s, ic) {
				return
			}
			r.guard.ScanVoiceStates(ctx, service.ReasonManual)
			ReplyEphemeral(s, ic, "✅ Voice scan complete.")
		}
	})

	// VoiceStateUpdate → el guard decide si hay onset de self-deaf
	r.s.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if vs.GuildID == "" || vs.UserID == "" {
			return
		}
		after := service.MemberVoice{
			GuildID:   vs.GuildID,
			UserID:    vs.UserID,
			ChannelID: vs.ChannelID,
			SelfDeaf:  vs.SelfDeaf,
		}
		if vs.Member != nil && vs.Member.User != nil {
			after.Bot = vs.Member.User.Bot
		}
		var before *service.MemberVoice
		if vs.BeforeUpdate != nil {
			before = &service.MemberVoice{
				GuildID:   vs.GuildID,
				UserID:    vs.UserID,
				ChannelID: vs.BeforeUpdate.ChannelID,
				SelfDeaf:  vs.BeforeUpdate.SelfDeaf,
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r.guard.HandleVoiceUpdate(ctx, before, after)
	})
}

func (r *Router) handleBlacklist(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, opts := subcmd(ic)
	switch sub {
	case "add":
		target, ok := ParseUserID(optStr(opts, "user_id"))
		if !ok {
			ReplyEphemeral(s, ic, "Invalid user ID. Provide a numeric ID or mention.")
			return
		}
		if err := r.exempt.AddPermanent(ctx, ic.GuildID, target, interactionUserID(ic), optStr(opts, "reason")); err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not update the blacklist: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("Added <@%s> to the blacklist.", target))

	case "remove":
		target, ok := ParseUserID(optStr(opts, "user_id"))
		if !ok {
			ReplyEphemeral(s, ic, "Invalid user ID. Provide a numeric ID or mention.")
			return
		}
		removed, err := r.exempt.RemovePermanent(ctx, ic.GuildID, target)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not update the blacklist: "+err.Error())
			return
		}
		if removed {
			ReplyEphemeral(s, ic, fmt.Sprintf("Removed <@%s> from the blacklist.", target))
		} else {
			ReplyEphemeral(s, ic, fmt.Sprintf("<@%s> is not in the blacklist.", target))
		}

	case "list":
		rows, err := r.exempt.ListPermanent(ctx, ic.GuildID, 50)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not read the blacklist: "+err.Error())
			return
		}
		if len(rows) == 0 {
			ReplyEphemeral(s, ic, "Blacklist is empty.")
			return
		}
		lines := make([]string, 0, len(rows))
		for _, e := range rows {
			reason := "no reason"
			if e.Reason != nil && *e.Reason != "" {
				reason = *e.Reason
			}
			addedBy := ""
			if e.AddedBy != nil && *e.AddedBy != "" {
				addedBy = fmt.Sprintf(" by <@%s>", *e.AddedBy)
			}
			lines = append(lines, fmt.Sprintf("<@%s> - %s (added %s%s)", e.UserID, reason, fmtEpochDate(e.AddedAt), addedBy))
		}
		ReplyEphemeral(s, ic, "Blacklist (max 50):\n"+strings.Join(lines, "\n"))
	}
}

func (r *Router) handleExempt(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, opts := subcmd(ic)
	switch sub {
	case "request":
		uid := interactionUserID(ic)
		active, err := r.exempt.IsTempExempt(ctx, ic.GuildID, uid)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not check your exemption: "+err.Error())
			return
		}
		if active {
			ReplyEphemeral(s, ic, "You already have an active exemption.")
			return
		}
		if r.ownerID == "" {
			ReplyEphemeral(s, ic, "Could not contact the bot owner.")
			return
		}
		reason := optStr(opts, "reason")
		if reason == "" {
			reason = "no reason"
		}
		msg := fmt.Sprintf(
			"Exemption request:\n- Guild: %s (%s)\n- User: <@%s> (%s)\n- Seconds: %d\n- Reason: %s\nUse /exempt grant to approve.",
			r.guildName(ic.GuildID), ic.GuildID, uid, uid, optInt(opts, "seconds"), reason,
		)
		if !dmUser(s, r.ownerID, msg) {
			ReplyEphemeral(s, ic, "Could not DM the bot owner.")
			return
		}
		ReplyEphemeral(s, ic, "Request sent to the bot owner.")

	case "grant":
		if !r.requireOwner(s, ic) {
			return
		}
		user := optUser(s, opts, "user")
		if user == nil {
			ReplyEphemeral(s, ic, "Invalid user.")
			return
		}
		seconds := optInt(opts, "seconds")
		reason := optStr(opts, "reason")
		if _, err := r.exempt.GrantTemporary(ctx, ic.GuildID, user.ID,
			time.Duration(seconds)*time.Second, interactionUserID(ic), reason); err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not grant the exemption: "+err.Error())
			return
		}
		if reason == "" {
			reason = "no reason"
		}
		dmUser(s, user.ID, fmt.Sprintf(
			"Your exemption request was approved.\n- Guild: %s (%s)\n- Duration: %d seconds\n- Reason: %s",
			r.guildName(ic.GuildID), ic.GuildID, seconds, reason,
		))
		ReplyEphemeral(s, ic, fmt.Sprintf("Granted exemption for %s (%d seconds).", user.Mention(), seconds))

	case "deny":
		if !r.requireOwner(s, ic) {
			return
		}
		user := optUser(s, opts, "user")
		if user == nil {
			ReplyEphemeral(s, ic, "Invalid user.")
			return
		}
		reason := optStr(opts, "reason")
		if reason == "" {
			reason = "no reason"
		}
		dmUser(s, user.ID, fmt.Sprintf(
			"Your exemption request was denied.\n- Guild: %s (%s)\n- Reason: %s",
			r.guildName(ic.GuildID), ic.GuildID, reason,
		))
		ReplyEphemeral(s, ic, fmt.Sprintf("Denied exemption for %s.", user.Mention()))
	}
}

func (r *Router) guildName(guildID string) string {
	if g, err := r.s.State.Guild(guildID); err == nil && g != nil && g.Name != "" {
		return g.Name
	}
	return "unknown"
}
