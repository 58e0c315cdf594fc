package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	discordrouter "github.com/akikohatsune/simplekick/internal/adapters/discord"
	"github.com/akikohatsune/simplekick/internal/adapters/github"
	"github.com/akikohatsune/simplekick/internal/app/service"
	"github.com/akikohatsune/simplekick/internal/infra/config"
	"github.com/akikohatsune/simplekick/internal/infra/storage"
	"github.com/akikohatsune/simplekick/internal/infra/update"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	log.Info().Msg("✅ DB lista y migrada")

	// Repos + services de exenciones
	blacklistRepo := storage.NewBlacklistRepo(db)
	tempRepo := storage.NewTempExemptRepo(db)
	exemptSvc := service.NewExemptionService(blacklistRepo, tempRepo)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal().Err(err).Msg("discord session")
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates | discordgo.IntentsGuildMembers
	if err := s.Open(); err != nil {
		log.Fatal().Err(err).Msg("discord open")
	}
	defer s.Close()
	log.Info().
		Str("user", s.State.User.Username).
		Str("id", s.State.User.ID).
		Msg("✅ conectado")

	// Owner: env gana; si falta, application info (inmutable después de boot)
	ownerID := cfg.OwnerID
	if ownerID == "" {
		if app, err := s.Application("@me"); err == nil && app.Owner != nil {
			ownerID = app.Owner.ID
		} else {
			log.Warn().Err(err).Msg("could not resolve application owner")
		}
	}

	// Guard (enforcement engine)
	gw := discordrouter.NewGateway(s)
	guard := service.NewGuardService(gw, exemptSvc, service.GuardConfig{
		Enabled:       cfg.EnhancedGuard,
		SweepInterval: cfg.GuardInterval,
		VerifyDelays:  cfg.VerifyDelays,
	})

	// Release check
	updateSvc := service.NewUpdateService(github.New(), cfg.BotVersion, cfg.GithubRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	guard.Start(ctx)

	// Router
	r := discordrouter.NewRouter(s, cfg.SyncGuildID, ownerID, cfg.AdminRoleID, guard, exemptSvc, updateSvc)
	if err := r.Register(); err != nil {
		log.Fatal().Err(err).Msg("registrando comandos")
	}
	r.Handlers()
	log.Info().Str("guild", cfg.SyncGuildID).Msg("✅ comandos registrados")

	if cfg.PresenceText != "" {
		if err := s.UpdateGameStatus(0, cfg.PresenceText); err != nil {
			log.Warn().Err(err).Msg("could not set presence")
		}
	}

	// Barrido inicial: recupera eventos perdidos mientras el proceso estaba caído
	go guard.ScanVoiceStates(ctx, service.ReasonStartup)

	// Chequeo de releases (y self-update opcional)
	go func() {
		cctx, ccancel := context.WithTimeout(ctx, 15*time.Second)
		defer ccancel()
		rel, newer := updateSvc.CheckForUpdates(cctx)
		if newer && cfg.AutoUpdate {
			if err := update.Apply(rel.TagName); err != nil {
				log.Warn().Err(err).Msg("auto-update failed")
			} else {
				log.Info().Str("tag", rel.TagName).Msg("update applied, restart to run it")
			}
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	guard.Stop()
}
