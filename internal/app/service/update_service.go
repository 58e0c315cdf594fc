package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/akikohatsune/simplekick/internal/adapters/github"
)

// UpdateService compara la versión local contra el último release del repo.
type UpdateService struct {
	api     ReleaseAPI
	version string
	repo    string
}

func NewUpdateService(api ReleaseAPI, version, repo string) *UpdateService {
	return &UpdateService{api: api, version: version, repo: repo}
}

// VersionStatus es lo que muestra /ver. Comparison queda nil cuando alguna
// de las dos versiones no parsea como tupla numérica.
type VersionStatus struct {
	Current    string
	Repo       string
	Latest     string // "" si el repo no tiene releases
	ReleaseURL string
	Comparison *int // <0 update disponible, 0 al día, >0 local adelantada
}

func (s *UpdateService) Version() string { return s.version }
func (s *UpdateService) Repo() string    { return s.repo }

func (s *UpdateService) Status(ctx context.Context) (VersionStatus, error) {
	st := VersionStatus{Current: s.version, Repo: s.repo}
	rel, err := s.api.LatestRelease(ctx, s.repo)
	if errors.Is(err, github.ErrNoRelease) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	st.Latest = rel.TagName
	st.ReleaseURL = rel.HTMLURL
	if cmp, ok := CompareVersions(s.version, rel.TagName); ok {
		st.Comparison = &cmp
	}
	return st, nil
}

// CheckForUpdates: chequeo de arranque. Loguea el resultado y devuelve el
// release cuando hay una versión más nueva publicada.
func (s *UpdateService) CheckForUpdates(ctx context.Context) (github.Release, bool) {
	rel, err := s.api.LatestRelease(ctx, s.repo)
	if errors.Is(err, github.ErrNoRelease) {
		log.Info().Str("repo", s.repo).Msg("no releases found")
		return github.Release{}, false
	}
	if err != nil {
		log.Error().Err(err).Str("repo", s.repo).Msg("failed to check updates")
		return github.Release{}, false
	}

	newer := false
	if cmp, ok := CompareVersions(s.version, rel.TagName); ok {
		newer = cmp < 0
	} else {
		// Formatos no comparables: cualquier tag distinto cuenta como update.
		newer = NormalizeVersion(rel.TagName) != NormalizeVersion(s.version)
	}
	if newer {
		log.Info().
			Str("current", s.version).
			Str("latest", rel.TagName).
			Str("url", rel.HTMLURL).
			Msg("update available")
		return rel, true
	}
	log.Info().Str("current", s.version).Msg("up to date")
	return github.Release{}, false
}

// NormalizeVersion saca el prefijo "v" y espacios.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}

// ParseVersion: "1.2.3" o "1.2-4" → tupla numérica. Cualquier segmento no
// numérico invalida el parseo completo.
func ParseVersion(v string) ([]int, bool) {
	cleaned := NormalizeVersion(v)
	if cleaned == "" {
		return nil, false
	}
	parts := strings.FieldsFunc(cleaned, func(r rune) bool { return r == '.' || r == '-' })
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n := 0
		if part == "" {
			return nil, false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return nil, false
			}
			n = n*10 + int(r-'0')
		}
		nums = append(nums, n)
	}
	return nums, true
}

// CompareVersions compara con padding de ceros (1.2 == 1.2.0).
func CompareVersions(current, latest string) (int, bool) {
	a, okA := ParseVersion(current)
	b, okB := ParseVersion(latest)
	if !okA || !okB {
		return 0, false
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1, true
			}
			return 1, true
		}
	}
	return 0, true
}
