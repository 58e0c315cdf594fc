package storage

import (
	"context"
	"database/sql"
	"time"

	pq "github.com/lib/pq"
)

type BlacklistRepo struct{ db *sql.DB }

func NewBlacklistRepo(db *sql.DB) *BlacklistRepo { return &BlacklistRepo{db: db} }

func (r *BlacklistRepo) IsListed(ctx context.Context, guildID, userID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM blacklist
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Add: upsert explícito — re-agregar al mismo user sobreescribe, nunca duplica.
func (r *BlacklistRepo) Add(ctx context.Context, guildID, userID string, addedBy, reason *string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO blacklist (guild_id, user_id, added_by, reason, added_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (guild_id, user_id) DO UPDATE SET
  added_by = EXCLUDED.added_by,
  reason   = EXCLUDED.reason,
  added_at = EXCLUDED.added_at
`, guildID, userID, addedBy, reason, time.Now().Unix())
	return err
}

func (r *BlacklistRepo) Remove(ctx context.Context, guildID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM blacklist
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *BlacklistRepo) List(ctx context.Context, guildID string, limit int) ([]BlacklistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, user_id, added_by, reason, added_at
  FROM blacklist
 WHERE guild_id = $1
 ORDER BY added_at DESC
 LIMIT $2
`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BlacklistEntry
	for rows.Next() {
		var e BlacklistEntry
		if err := rows.Scan(&e.GuildID, &e.UserID, &e.AddedBy, &e.Reason, &e.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ExemptAmong: devuelve el subconjunto de userIDs con entrada permanente.
// Una sola query por guild en el sweep, en vez de N lookups.
func (r *BlacklistRepo) ExemptAmong(ctx context.Context, guildID string, userIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id
  FROM blacklist
 WHERE guild_id = $1 AND user_id = ANY($2)
`, guildID, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
