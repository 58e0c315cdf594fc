package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	DiscordToken string
	DatabaseURL  string

	SyncGuildID  string // opcional: sync de comandos a un guild fijo
	OwnerID      string // opcional: si falta, se resuelve de application info
	AdminRoleID  string // opcional: rol que también pasa el gate de owner
	BotVersion   string
	GithubRepo   string // owner/repo para el release check
	PresenceText string
	LogLevel     string

	EnhancedGuard bool
	GuardInterval time.Duration
	VerifyDelays  []time.Duration

	AutoUpdate bool
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatal().Msgf("faltante env %s", k)
		}
		return v
	}

	cfg := Config{
		DiscordToken:  get("DISCORD_BOT_TOKEN", true),
		DatabaseURL:   get("DATABASE_URL", true),
		SyncGuildID:   get("GUILD_ID", false),
		OwnerID:       get("OWNER_ID", false),
		AdminRoleID:   get("ADMIN_ROLE_ID", false),
		BotVersion:    get("BOT_VERSION", false),
		GithubRepo:    get("GITHUB_REPO", false),
		PresenceText:  get("PRESENCE_TEXT", false),
		LogLevel:      get("LOG_LEVEL", false),
		EnhancedGuard: ParseBool(os.Getenv("VOICE_ENHANCED_GUARD"), true),
		GuardInterval: time.Duration(ParseInt(os.Getenv("VOICE_GUARD_INTERVAL_SECONDS"), 45, 10)) * time.Second,
		VerifyDelays:  ParseDelays(os.Getenv("VOICE_VERIFY_DELAYS_SECONDS"), []time.Duration{2 * time.Second, 5 * time.Second}),
		AutoUpdate:    ParseBool(os.Getenv("AUTO_UPDATE"), false),
	}
	if cfg.BotVersion == "" {
		cfg.BotVersion = "1.3.4"
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = "akikohatsune/simplekick"
	}
	if cfg.PresenceText == "" {
		cfg.PresenceText = "Auto-disconnect self-deafen"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

func ParseBool(raw string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def
	}
	switch v {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

// ParseInt: valores por debajo del mínimo se clavan al mínimo.
func ParseInt(raw string, def, minimum int) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < minimum {
		return minimum
	}
	return n
}

// ParseDelays: lista separada por comas, en segundos (admite fracciones).
// Tokens inválidos o <= 0 se ignoran; si no queda ninguno, vale el default.
func ParseDelays(raw string, def []time.Duration) []time.Duration {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []time.Duration
	for _, chunk := range strings.Split(raw, ",") {
		text := strings.TrimSpace(chunk)
		if text == "" {
			continue
		}
		secs, err := strconv.ParseFloat(text, 64)
		if err != nil || secs <= 0 {
			continue
		}
		out = append(out, time.Duration(secs*float64(time.Second)))
	}
	if len(out) == 0 {
		return def
	}
	return out
}
