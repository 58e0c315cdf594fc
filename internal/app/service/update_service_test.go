package service

import (
	"context"
	"errors"
	"testing"

	"github.com/akikohatsune/simplekick/internal/adapters/github"
)

type fakeReleaseAPI struct {
	rel github.Release
	err error
}

func (f *fakeReleaseAPI) LatestRelease(context.Context, string) (github.Release, error) {
	return f.rel, f.err
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		current, latest string
		want            int
		ok              bool
	}{
		{"1.3.4", "1.3.4", 0, true},
		{"v1.3.4", "1.3.4", 0, true},
		{"1.3.4", "v1.3.5", -1, true},
		{"1.4.0", "1.3.9", 1, true},
		{"1.3", "1.3.0", 0, true},
		{"1.3", "1.3.1", -1, true},
		{"1.2-4", "1.2.4", 0, true},
		{"2.0", "1.99.99", 1, true},
		{"1.3.4", "latest", 0, false},
		{"dev", "1.0.0", 0, false},
		{"", "1.0.0", 0, false},
	}
	for _, tc := range cases {
		got, ok := CompareVersions(tc.current, tc.latest)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("CompareVersions(%q, %q) = (%d, %v), want (%d, %v)",
				tc.current, tc.latest, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseVersion(t *testing.T) {
	cases := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"1.3.4", []int{1, 3, 4}, true},
		{"v2.0", []int{2, 0}, true},
		{" v1.0 ", []int{1, 0}, true},
		{"1.2-rc1", nil, false},
		{"..", nil, false},
		{"", nil, false},
	}
	for _, tc := range cases {
		got, ok := ParseVersion(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseVersion(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("ParseVersion(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseVersion(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestStatusWithRelease(t *testing.T) {
	api := &fakeReleaseAPI{rel: github.Release{TagName: "v1.4.0", HTMLURL: "https://example.test/rel"}}
	svc := NewUpdateService(api, "1.3.4", "akikohatsune/simplekick")

	st, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Latest != "v1.4.0" || st.ReleaseURL != "https://example.test/rel" {
		t.Fatalf("release not reflected: %+v", st)
	}
	if st.Comparison == nil || *st.Comparison >= 0 {
		t.Fatalf("expected update-available comparison, got %+v", st.Comparison)
	}
}

func TestStatusNoRelease(t *testing.T) {
	svc := NewUpdateService(&fakeReleaseAPI{err: github.ErrNoRelease}, "1.3.4", "akikohatsune/simplekick")

	st, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("ErrNoRelease should not surface: %v", err)
	}
	if st.Latest != "" || st.Comparison != nil {
		t.Fatalf("empty repo produced a comparison: %+v", st)
	}
}

func TestStatusAPIError(t *testing.T) {
	boom := errors.New("rate limited")
	svc := NewUpdateService(&fakeReleaseAPI{err: boom}, "1.3.4", "akikohatsune/simplekick")

	if _, err := svc.Status(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("API error swallowed: %v", err)
	}
}

func TestCheckForUpdates(t *testing.T) {
	cases := []struct {
		name    string
		current string
		api     *fakeReleaseAPI
		want    bool
	}{
		{"newer release", "1.3.4", &fakeReleaseAPI{rel: github.Release{TagName: "v1.4.0"}}, true},
		{"up to date", "1.3.4", &fakeReleaseAPI{rel: github.Release{TagName: "v1.3.4"}}, false},
		{"local ahead", "1.5.0", &fakeReleaseAPI{rel: github.Release{TagName: "v1.4.0"}}, false},
		{"uncomparable but different", "dev", &fakeReleaseAPI{rel: github.Release{TagName: "v1.4.0"}}, true},
		{"uncomparable but equal", "nightly", &fakeReleaseAPI{rel: github.Release{TagName: "nightly"}}, false},
		{"no release", "1.3.4", &fakeReleaseAPI{err: github.ErrNoRelease}, false},
		{"api down", "1.3.4", &fakeReleaseAPI{err: errors.New("boom")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewUpdateService(tc.api, tc.current, "akikohatsune/simplekick")
			rel, newer := svc.CheckForUpdates(context.Background())
			if newer != tc.want {
				t.Fatalf("newer = %v, want %v", newer, tc.want)
			}
			if newer && rel.TagName == "" {
				t.Fatal("reported an update without the release")
			}
		})
	}
}
