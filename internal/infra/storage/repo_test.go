package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite" // SQLite en memoria, puro Go; mismo SQL portable
)

// newTestDB: base efímera por test. Una sola conexión para que ":memory:"
// sea la misma base en todas las queries.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, ddl := range []string{
		`CREATE TABLE blacklist (
			guild_id TEXT   NOT NULL,
			user_id  TEXT   NOT NULL,
			added_by TEXT,
			reason   TEXT,
			added_at BIGINT NOT NULL,
			PRIMARY KEY (guild_id, user_id)
		)`,
		`CREATE TABLE temp_exempt (
			guild_id   TEXT   NOT NULL,
			user_id    TEXT   NOT NULL,
			expires_at BIGINT NOT NULL,
			granted_by TEXT,
			reason     TEXT,
			PRIMARY KEY (guild_id, user_id)
		)`,
	} {
		if _, err := db.Exec(ddl); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func strptr(s string) *string { return &s }

func TestBlacklistAddRemoveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	r := NewBlacklistRepo(db)
	ctx := context.Background()

	listed, err := r.IsListed(ctx, "g1", "12345")
	if err != nil || listed {
		t.Fatalf("IsListed on empty table = (%v, %v)", listed, err)
	}

	if err := r.Add(ctx, "g1", "12345", strptr("owner"), strptr("testing")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if listed, err = r.IsListed(ctx, "g1", "12345"); err != nil || !listed {
		t.Fatalf("IsListed after Add = (%v, %v)", listed, err)
	}

	// Otro guild no se ve afectado
	if listed, _ = r.IsListed(ctx, "g2", "12345"); listed {
		t.Fatal("entry leaked into another guild")
	}

	removed, err := r.Remove(ctx, "g1", "12345")
	if err != nil || !removed {
		t.Fatalf("Remove = (%v, %v)", removed, err)
	}
	if listed, _ = r.IsListed(ctx, "g1", "12345"); listed {
		t.Fatal("still listed after Remove")
	}
	if removed, _ = r.Remove(ctx, "g1", "12345"); removed {
		t.Fatal("Remove reported a hit on a missing row")
	}
}

func TestBlacklistAddIsUpsert(t *testing.T) {
	db := newTestDB(t)
	r := NewBlacklistRepo(db)
	ctx := context.Background()

	if err := r.Add(ctx, "g1", "u1", strptr("a"), strptr("first")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(ctx, "g1", "u1", strptr("b"), strptr("second")); err != nil {
		t.Fatalf("re-Add: %v", err)
	}

	rows, err := r.List(ctx, "g1", 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("re-Add duplicated the row: %d entries", len(rows))
	}
	if rows[0].Reason == nil || *rows[0].Reason != "second" {
		t.Fatalf("last write did not win: %+v", rows[0])
	}
	if rows[0].AddedBy == nil || *rows[0].AddedBy != "b" {
		t.Fatalf("added_by not overwritten: %+v", rows[0])
	}
}

func TestBlacklistListOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	r := NewBlacklistRepo(db)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if err := r.Add(ctx, "g1", u, nil, nil); err != nil {
			t.Fatalf("Add %s: %v", u, err)
		}
	}
	// added_at controlado para que el orden sea determinista
	base := time.Now().Unix()
	for i, u := range []string{"u1", "u2", "u3"} {
		if _, err := db.Exec(`UPDATE blacklist SET added_at = $1 WHERE user_id = $2`, base+int64(i), u); err != nil {
			t.Fatalf("seed added_at: %v", err)
		}
	}

	rows, err := r.List(ctx, "g1", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit not applied: %d entries", len(rows))
	}
	if rows[0].UserID != "u3" || rows[1].UserID != "u2" {
		t.Fatalf("not most-recent-first: %s, %s", rows[0].UserID, rows[1].UserID)
	}
}

func TestTempExemptGrantAndExpiry(t *testing.T) {
	db := newTestDB(t)
	r := NewTempExemptRepo(db)
	ctx := context.Background()

	future := time.Now().Add(10 * time.Second).Unix()
	if err := r.Grant(ctx, TempExempt{GuildID: "g1", UserID: "u1", ExpiresAt: future}); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	ok, err := r.IsExempt(ctx, "g1", "u1")
	if err != nil || !ok {
		t.Fatalf("IsExempt before expiry = (%v, %v)", ok, err)
	}

	// Vencido: la primera lectura lo niega y lo purga
	past := time.Now().Add(-1 * time.Second).Unix()
	if err := r.Grant(ctx, TempExempt{GuildID: "g1", UserID: "u1", ExpiresAt: past}); err != nil {
		t.Fatalf("re-Grant: %v", err)
	}
	if ok, err = r.IsExempt(ctx, "g1", "u1"); err != nil || ok {
		t.Fatalf("IsExempt after expiry = (%v, %v)", ok, err)
	}
	// Segunda lectura no lo resucita
	if ok, err = r.IsExempt(ctx, "g1", "u1"); err != nil || ok {
		t.Fatalf("expired grant came back: (%v, %v)", ok, err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM temp_exempt`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("expired row not purged: n=%d err=%v", n, err)
	}
}

func TestTempExemptGrantReplacesPrior(t *testing.T) {
	db := newTestDB(t)
	r := NewTempExemptRepo(db)
	ctx := context.Background()

	if err := r.Grant(ctx, TempExempt{GuildID: "g1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute).Unix()}); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	// El nuevo grant pisa al vencido sin pasar por la purga
	if err := r.Grant(ctx, TempExempt{GuildID: "g1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour).Unix()}); err != nil {
		t.Fatalf("re-Grant: %v", err)
	}
	ok, err := r.IsExempt(ctx, "g1", "u1")
	if err != nil || !ok {
		t.Fatalf("IsExempt after replacing grant = (%v, %v)", ok, err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM temp_exempt`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("grant duplicated: n=%d err=%v", n, err)
	}
}

func TestTempExemptRemove(t *testing.T) {
	db := newTestDB(t)
	r := NewTempExemptRepo(db)
	ctx := context.Background()

	if removed, _ := r.Remove(ctx, "g1", "u1"); removed {
		t.Fatal("Remove reported a hit on empty table")
	}
	if err := r.Grant(ctx, TempExempt{GuildID: "g1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour).Unix()}); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	removed, err := r.Remove(ctx, "g1", "u1")
	if err != nil || !removed {
		t.Fatalf("Remove = (%v, %v)", removed, err)
	}
	if ok, _ := r.IsExempt(ctx, "g1", "u1"); ok {
		t.Fatal("still exempt after Remove")
	}
}
