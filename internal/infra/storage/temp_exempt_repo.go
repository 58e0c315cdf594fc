package storage

import (
	"context"
	"database/sql"
	"time"
)

type TempExemptRepo struct{ db *sql.DB }

func NewTempExemptRepo(db *sql.DB) *TempExemptRepo { return &TempExemptRepo{db: db} }

// Grant: upsert — un solo grant activo por (guild, user), el nuevo pisa al anterior.
func (r *TempExemptRepo) Grant(ctx context.Context, t TempExempt) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO temp_exempt (guild_id, user_id, expires_at, granted_by, reason)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (guild_id, user_id) DO UPDATE SET
  expires_at = EXCLUDED.expires_at,
  granted_by = EXCLUDED.granted_by,
  reason     = EXCLUDED.reason
`, t.GuildID, t.UserID, t.ExpiresAt, t.GrantedBy, t.Reason)
	return err
}

func (r *TempExemptRepo) Remove(ctx context.Context, guildID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM temp_exempt
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsExempt: expiry es pull-based — un grant vencido jamás se reporta activo
// y se purga en la primera lectura que lo encuentra vencido.
func (r *TempExemptRepo) IsExempt(ctx context.Context, guildID, userID string) (bool, error) {
	var expiresAt int64
	err := r.db.QueryRowContext(ctx, `
SELECT expires_at FROM temp_exempt
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if expiresAt <= time.Now().Unix() {
		_, err := r.db.ExecContext(ctx, `
DELETE FROM temp_exempt
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID)
		return false, err
	}
	return true, nil
}
