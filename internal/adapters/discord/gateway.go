package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/akikohatsune/simplekick/internal/app/service"
)

// Gateway implementa service.VoiceGateway sobre la sesión de discordgo.
// Todo se resuelve contra el state cache en el momento de la llamada.
type Gateway struct {
	s *discordgo.Session
}

func NewGateway(s *discordgo.Session) *Gateway { return &Gateway{s: s} }

func (g *Gateway) ResolveMember(guildID, userID string) (service.MemberVoice, bool) {
	member, err := g.s.State.Member(guildID, userID)
	if err != nil || member == nil {
		member, err = g.s.GuildMember(guildID, userID)
		if err != nil || member == nil {
			return service.MemberVoice{}, false
		}
		_ = g.s.State.MemberAdd(member)
	}

	m := service.MemberVoice{GuildID: guildID, UserID: userID}
	if member.User != nil {
		m.Bot = member.User.Bot
	}
	if vs, err := g.s.State.VoiceState(guildID, userID); err == nil && vs != nil {
		m.ChannelID = vs.ChannelID
		m.SelfDeaf = vs.SelfDeaf
	}
	return m, true
}

func (g *Gateway) GuildIDs() []string {
	guilds := g.s.State.Guilds
	ids := make([]string, 0, len(guilds))
	for _, guild := range guilds {
		ids = append(ids, guild.ID)
	}
	return ids
}

// DeafenedInVoice: ocupantes self-deafened de los canales de voz del guild,
// según el voice state cache.
func (g *Gateway) DeafenedInVoice(guildID string) []service.MemberVoice {
	guild, err := g.s.State.Guild(guildID)
	if err != nil || guild == nil {
		return nil
	}
	var out []service.MemberVoice
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == "" || !vs.SelfDeaf {
			continue
		}
		m := service.MemberVoice{
			GuildID:   guildID,
			UserID:    vs.UserID,
			ChannelID: vs.ChannelID,
			SelfDeaf:  true,
		}
		if member, err := g.s.State.Member(guildID, vs.UserID); err == nil && member != nil && member.User != nil {
			m.Bot = member.User.Bot
		}
		out = append(out, m)
	}
	return out
}

func (g *Gateway) CanMoveMembers(guildID string) bool {
	self := g.s.State.User
	if self == nil {
		return false
	}
	guild, err := g.s.State.Guild(guildID)
	if err != nil || guild == nil {
		return false
	}
	if guild.OwnerID == self.ID {
		return true
	}
	member, err := g.s.State.Member(guildID, self.ID)
	if err != nil || member == nil {
		log.Warn().Str("guild", guildID).Msg("own member not in state, cannot verify Move Members")
		return false
	}

	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID { // @everyone
			perms |= role.Permissions
			continue
		}
		for _, rid := range member.Roles {
			if role.ID == rid {
				perms |= role.Permissions
				break
			}
		}
	}
	if perms&(discordgo.PermissionAdministrator|discordgo.PermissionVoiceMoveMembers) == 0 {
		log.Warn().Str("guild", guildID).Msg("missing Move Members permission")
		return false
	}
	return true
}

// Disconnect saca al miembro de su canal de voz (move a nil), con reason
// para el audit log.
func (g *Gateway) Disconnect(ctx context.Context, guildID, userID, reason string) error {
	err := g.s.GuildMemberMove(guildID, userID, nil,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return mapRESTErr(err)
}

func (g *Gateway) Notify(ctx context.Context, userID, content string) error {
	ch, err := g.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapRESTErr(err)
	}
	_, err = g.s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return mapRESTErr(err)
}

// mapRESTErr traduce el 403 de la plataforma al sentinel del service.
func mapRESTErr(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", service.ErrForbidden, err)
	}
	return err
}
