package service

import (
	"context"
	"time"

	"github.com/akikohatsune/simplekick/internal/infra/storage"
)

// ExemptionService: contrato de la exemption store. "Blacklist" es histórico:
// una entrada exime al usuario del auto-disconnect de forma permanente; los
// grants temporales hacen lo mismo hasta expires_at.
type ExemptionService struct {
	blacklist BlacklistRepo
	temp      TempExemptRepo
}

func NewExemptionService(b BlacklistRepo, t TempExemptRepo) *ExemptionService {
	return &ExemptionService{blacklist: b, temp: t}
}

// IsExempt: exento permanente O grant temporal vigente.
func (s *ExemptionService) IsExempt(ctx context.Context, guildID, userID string) (bool, error) {
	listed, err := s.blacklist.IsListed(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	if listed {
		return true, nil
	}
	return s.temp.IsExempt(ctx, guildID, userID)
}

func (s *ExemptionService) AddPermanent(ctx context.Context, guildID, userID, addedBy, reason string) error {
	return s.blacklist.Add(ctx, guildID, userID, optional(addedBy), optional(reason))
}

func (s *ExemptionService) RemovePermanent(ctx context.Context, guildID, userID string) (bool, error) {
	return s.blacklist.Remove(ctx, guildID, userID)
}

func (s *ExemptionService) ListPermanent(ctx context.Context, guildID string, limit int) ([]storage.BlacklistEntry, error) {
	return s.blacklist.List(ctx, guildID, limit)
}

// GrantTemporary: pisa cualquier grant anterior del mismo user. Devuelve el
// expires_at resultante (epoch seconds).
func (s *ExemptionService) GrantTemporary(ctx context.Context, guildID, userID string, d time.Duration, grantedBy, reason string) (int64, error) {
	expiresAt := time.Now().Add(d).Unix()
	err := s.temp.Grant(ctx, storage.TempExempt{
		GuildID:   guildID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		GrantedBy: optional(grantedBy),
		Reason:    optional(reason),
	})
	return expiresAt, err
}

func (s *ExemptionService) IsTempExempt(ctx context.Context, guildID, userID string) (bool, error) {
	return s.temp.IsExempt(ctx, guildID, userID)
}

func (s *ExemptionService) RevokeTemporary(ctx context.Context, guildID, userID string) (bool, error) {
	return s.temp.Remove(ctx, guildID, userID)
}

// ExemptAmong: prefiltro batch del sweep — sólo exenciones permanentes; las
// temporales se chequean per-user en Enforce (y ahí purgan las vencidas).
func (s *ExemptionService) ExemptAmong(ctx context.Context, guildID string, userIDs []string) (map[string]bool, error) {
	return s.blacklist.ExemptAmong(ctx, guildID, userIDs)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
