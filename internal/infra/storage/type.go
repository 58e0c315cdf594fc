package storage

// BlacklistEntry: pese al nombre, es una allow-list — el usuario queda
// exento del auto-disconnect. Timestamps en epoch seconds (UTC).
type BlacklistEntry struct {
	GuildID string
	UserID  string
	AddedBy *string
	Reason  *string
	AddedAt int64
}

type TempExempt struct {
	GuildID   string
	UserID    string
	ExpiresAt int64
	GrantedBy *string
	Reason    *string
}
