package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/freqprofile/internal/config"
	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/store"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func writeSession(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	data := `{"fixed":[{"f":432,"valence":"joy","like":80,"locus":["heart"]},{"f":40,"valence":"anxiety","like":20,"locus":["belly"]}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

func TestScoreSaveAndShow(t *testing.T) {
	isolateXDG(t)
	out := runCmd(t, "score", writeSession(t), "--save", "--format", "json")

	for _, key := range []string{`"id":`, `"createdAt":`, `"result":`, `"session":`, `"FQI":`} {
		if !strings.Contains(out, key) {
			t.Fatalf("missing key %s in:\n%s", key, out)
		}
	}
	if strings.Contains(out, `"CreatedAt"`) {
		t.Fatalf("unexpected Go field name in:\n%s", out)
	}

	var rec model.ResultRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("expected identity on scored record: %+v", rec)
	}
	if len(rec.Session.Fixed) != 2 {
		t.Fatalf("expected 2 fixed items, got %d", len(rec.Session.Fixed))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	stored, err := st.GetResult(context.Background(), rec.ID)
	if cerr := st.Close(); cerr != nil {
		t.Fatalf("close store: %v", cerr)
	}
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if stored.Result.Scores != rec.Result.Scores {
		t.Fatalf("stored scores differ: %+v vs %+v", stored.Result.Scores, rec.Result.Scores)
	}

	card := runCmd(t, "show", rec.ID)
	if !strings.Contains(card, "Frequency Profile") || !strings.Contains(card, "Archetype:") {
		t.Fatalf("unexpected card:\n%s", card)
	}
}

func TestScoreWithoutSaveLeavesHistoryEmpty(t *testing.T) {
	isolateXDG(t)
	runCmd(t, "score", writeSession(t))
	out := runCmd(t, "history", "--plain")
	if !strings.Contains(out, "No results found.") {
		t.Fatalf("unsaved score should not reach history:\n%s", out)
	}
}

func TestScoreRejectsFormat(t *testing.T) {
	isolateXDG(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"score", writeSession(t), "--format", "xml"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	isolateXDG(t)
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[history]\ncurve-window = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	runCmd(t, "history", "--plain")
	if historyCurveWindow != 4 {
		t.Fatalf("expected curve window from config, got %d", historyCurveWindow)
	}
	runCmd(t, "history", "--plain", "--curve-window", "7")
	if historyCurveWindow != 7 {
		t.Fatalf("expected flag to win over config, got %d", historyCurveWindow)
	}
}

func TestStimuliListsPairs(t *testing.T) {
	out := runCmd(t, "stimuli")
	for _, want := range []string{"Fixed frequencies (Hz): 40, 110, 220, 432, 528, 1000, 4000, 8000", "Free pick scale (Hz): 40, 150, 566, 2127, 8000", "Anchor: 432 Hz", "1. Sıcak", "8. Elektrik", "Organik"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestBuildHistoryConfig(t *testing.T) {
	cfg, err := buildHistoryConfig("2024-03-01", 5, 3, "lunar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Last != 5 || cfg.CurveWindow != 3 || cfg.Aura != model.AuraLunar {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cases := []struct {
		since  string
		last   int
		window int
		aura   string
	}{
		{since: "03/01/2024", window: 1},
		{last: -1, window: 1},
		{window: 0},
		{window: 1, aura: "cosmic"},
	}
	for _, tc := range cases {
		if _, err := buildHistoryConfig(tc.since, tc.last, tc.window, tc.aura); err == nil {
			t.Fatalf("expected error for %+v", tc)
		}
	}
}

func TestValidateQuizConfig(t *testing.T) {
	ok := model.QuizConfig{ChronoTrials: 3, NaturalCycles: 4, DeepBreaths: 3, StabilitySeconds: 30}
	if err := validateQuizConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ok
	bad.ChronoTrials = 11
	if err := validateQuizConfig(bad); err == nil {
		t.Fatalf("expected chrono trials error")
	}
	bad = ok
	bad.StabilitySeconds = 0
	if err := validateQuizConfig(bad); err == nil {
		t.Fatalf("expected stability error")
	}
}
