package service

import (
	"context"

	"github.com/akikohatsune/simplekick/internal/adapters/github"
	"github.com/akikohatsune/simplekick/internal/infra/storage"
)

// MemberVoice: foto puntual del estado de voz de un miembro. Se re-resuelve
// en cada chequeo — nunca retenemos objetos vivos del gateway entre llamadas.
type MemberVoice struct {
	GuildID   string
	UserID    string
	ChannelID string // "" si no está en un canal de voz
	SelfDeaf  bool
	Bot       bool
}

// Lo implementa internal/adapters/discord.Gateway
type VoiceGateway interface {
	ResolveMember(guildID, userID string) (MemberVoice, bool)
	GuildIDs() []string
	DeafenedInVoice(guildID string) []MemberVoice
	CanMoveMembers(guildID string) bool
	Disconnect(ctx context.Context, guildID, userID, reason string) error
	Notify(ctx context.Context, userID, content string) error
}

// Lo implementa internal/infra/storage.BlacklistRepo
type BlacklistRepo interface {
	IsListed(ctx context.Context, guildID, userID string) (bool, error)
	Add(ctx context.Context, guildID, userID string, addedBy, reason *string) error
	Remove(ctx context.Context, guildID, userID string) (bool, error)
	List(ctx context.Context, guildID string, limit int) ([]storage.BlacklistEntry, error)
	ExemptAmong(ctx context.Context, guildID string, userIDs []string) (map[string]bool, error)
}

// Lo implementa internal/infra/storage.TempExemptRepo
type TempExemptRepo interface {
	Grant(ctx context.Context, t storage.TempExempt) error
	Remove(ctx context.Context, guildID, userID string) (bool, error)
	IsExempt(ctx context.Context, guildID, userID string) (bool, error)
}

// Lo implementa internal/adapters/github.Client
type ReleaseAPI interface {
	LatestRelease(ctx context.Context, repo string) (github.Release, error)
}
