package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Razones de audit log. Distinguen qué camino gatilló la desconexión.
const (
	ReasonLive    = "Auto-disconnect: self-deaf in voice channel"
	ReasonStartup = "Auto-disconnect: self-deaf on startup"
	ReasonSweep   = "Auto-disconnect: periodic guard sweep"
	ReasonVerify  = "Auto-disconnect: self-deaf verification pass"
	ReasonManual  = "Auto-disconnect: manual voice scan"
)

const disconnectNotice = "You were disconnected because you self-deafened in a voice channel. " +
	"Please undeafen before rejoining. If you need time, use /exempt request."

type GuardConfig struct {
	Enabled       bool
	SweepInterval time.Duration
	VerifyDelays  []time.Duration
}

type guardKey struct{ guildID, userID string }

// GuardService es el enforcement engine: decide si un miembro self-deafened
// debe ser desconectado, ejecuta la acción, y mantiene el guard state en
// memoria (a lo sumo una secuencia de verificación por (guild, user), más el
// sweep periódico). Sólo lee la store, nunca la muta.
type GuardService struct {
	gw     VoiceGateway
	exempt *ExemptionService
	cfg    GuardConfig

	mu        sync.Mutex
	verifying map[guardKey]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGuardService(gw VoiceGateway, exempt *ExemptionService, cfg GuardConfig) *GuardService {
	return &GuardService{
		gw:        gw,
		exempt:    exempt,
		cfg:       cfg,
		verifying: map[guardKey]struct{}{},
	}
}

// Start lanza el sweep periódico. Sin enhanced guard no hay sweep ni
// verificaciones; queda sólo el camino de eventos en vivo.
func (s *GuardService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Info().Msg("enhanced voice guard disabled")
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.sweepLoop(s.ctx)
	log.Info().
		Dur("interval", s.cfg.SweepInterval).
		Int("verify_passes", len(s.cfg.VerifyDelays)).
		Msg("enhanced voice guard enabled")
}

// Stop cancela el sweep y toda verificación en vuelo, y espera a que
// terminen de desenrollarse.
func (s *GuardService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *GuardService) sweepLoop(ctx context.Context) {
	defer s.wg.Done()
	t := time.NewTicker(s.cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.ScanVoiceStates(ctx, ReasonSweep)
		}
	}
}

// ShouldDisconnect: predicado de decisión, evaluado fresco en cada llamada.
// Un error de store corta la evaluación — fail closed: sin veredicto de
// exención no se desconecta a nadie.
func (s *GuardService) ShouldDisconnect(ctx context.Context, m MemberVoice) (bool, error) {
	if m.Bot {
		return false, nil
	}
	if m.ChannelID == "" {
		return false, nil
	}
	if !m.SelfDeaf {
		return false, nil
	}
	exempt, err := s.exempt.IsExempt(ctx, m.GuildID, m.UserID)
	if err != nil {
		return false, fmt.Errorf("exemption lookup for %s/%s: %w", m.GuildID, m.UserID, err)
	}
	if exempt {
		return false, nil
	}
	if !s.gw.CanMoveMembers(m.GuildID) {
		return false, nil
	}
	return true, nil
}

// Enforce: decide y, si corresponde, desconecta y notifica. Fallos de
// plataforma se loguean y se abandonan — sin retry, el próximo trigger
// re-evalúa desde cero.
func (s *GuardService) Enforce(ctx context.Context, m MemberVoice, reason string) error {
	ok, err := s.ShouldDisconnect(ctx, m)
	if err != nil {
		log.Error().Err(err).
			Str("guild", m.GuildID).
			Str("user", m.UserID).
			Msg("exemption check failed, skipping enforcement")
		return err
	}
	if !ok {
		return nil
	}

	if err := s.gw.Disconnect(ctx, m.GuildID, m.UserID, reason); err != nil {
		if errors.Is(err, ErrForbidden) {
			log.Warn().
				Str("guild", m.GuildID).
				Str("user", m.UserID).
				Msg("forbidden to disconnect member")
			return nil
		}
		log.Error().Err(err).
			Str("guild", m.GuildID).
			Str("user", m.UserID).
			Str("reason", reason).
			Msg("failed to disconnect member")
		return nil
	}

	log.Info().
		Str("guild", m.GuildID).
		Str("user", m.UserID).
		Str("reason", reason).
		Msg("disconnected member for self-deaf")

	// DM best-effort: que un user con DMs cerrados no escale a nada.
	if err := s.gw.Notify(ctx, m.UserID, disconnectNotice); err != nil && !errors.Is(err, ErrForbidden) {
		log.Error().Err(err).Str("user", m.UserID).Msg("failed to DM disconnected member")
	}
	return nil
}

// HandleVoiceUpdate normaliza un presence update en vivo. Sólo un onset
// genuino dispara enforcement: si ya estaba self-deafened en el mismo canal,
// el update vino por otro campo (mute, stream) y se suprime.
func (s *GuardService) HandleVoiceUpdate(ctx context.Context, before *MemberVoice, after MemberVoice) {
	if after.ChannelID == "" {
		return
	}
	if !after.SelfDeaf {
		return
	}
	if before != nil && before.SelfDeaf && before.ChannelID == after.ChannelID {
		return
	}
	_ = s.Enforce(ctx, after, ReasonLive)
	s.scheduleVerify(after.GuildID, after.UserID)
}

// ScanVoiceStates recorre todos los canales de voz visibles y aplica
// enforcement a cada ocupante self-deafened. Recupera eventos perdidos
// (proceso offline) y cambios de permisos entre eventos.
func (s *GuardService) ScanVoiceStates(ctx context.Context, reason string) {
	for _, guildID := range s.gw.GuildIDs() {
		if !s.gw.CanMoveMembers(guildID) {
			continue
		}
		members := s.gw.DeafenedInVoice(guildID)
		if len(members) == 0 {
			continue
		}

		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		// Una query por guild; el Enforce per-user re-chequea igual (ahí
		// entran las exenciones temporales y su purga lazy).
		exempt, err := s.exempt.ExemptAmong(ctx, guildID, ids)
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Msg("exemption prefilter failed, skipping guild this pass")
			continue
		}
		for _, m := range members {
			if exempt[m.UserID] {
				continue
			}
			_ = s.Enforce(ctx, m, reason)
		}
	}
}

// scheduleVerify: idle → verifying para la key, no-op si ya hay una
// secuencia en vuelo. Cubre el caso del user que se des-deafenea un
// instante para evadir el chequeo sincrónico, y permisos que propagan
// tarde en la plataforma.
func (s *GuardService) scheduleVerify(guildID, userID string) {
	if !s.cfg.Enabled || s.ctx == nil {
		return
	}
	key := guardKey{guildID, userID}
	s.mu.Lock()
	if _, inFlight := s.verifying[key]; inFlight {
		s.mu.Unlock()
		return
	}
	s.verifying[key] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.verifyWorker(s.ctx, key)
}

func (s *GuardService) verifyWorker(ctx context.Context, key guardKey) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.verifying, key)
		s.mu.Unlock()
	}()

	for _, delay := range s.cfg.VerifyDelays {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		m, ok := s.gw.ResolveMember(key.guildID, key.userID)
		if !ok || m.ChannelID == "" || !m.SelfDeaf {
			// Condición resuelta: seguir chequeando es trabajo perdido.
			return
		}
		if err := s.Enforce(ctx, m, ReasonVerify); err != nil {
			// Ya logueado; la secuencia aborta, el resto del guard sigue.
			return
		}
	}
}

// verifyInFlight: sólo para introspección en tests.
func (s *GuardService) verifyInFlight(guildID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.verifying[guardKey{guildID, userID}]
	return ok
}
