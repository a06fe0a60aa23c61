package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "freqprofile.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	feels := []model.FeelType{model.FeelJoy, model.FeelPeace, model.FeelPeace}
	for i := 0; i < 3; i++ {
		at := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		id := "result-" + string(rune('a'+i))
		rec := model.ResultRecord{
			ID:        id,
			CreatedAt: at,
			Result: model.Result{
				Scores: model.Scores{FFreq: 60 + i, Chrono: 70, Stability: 80, Tone: 65, Breath: 75, FQI: 105 + i, Percentile: 57},
				Aura:   model.AuraInfo{Type: model.AuraLunar},
			},
			Session: model.Session{
				ID:        id,
				CreatedAt: at,
				Fixed: []model.FixedFreqItem{
					{F: 432, Valence: feels[i], Like: 80, Locus: []model.BodyLocusType{model.LocusHeart}},
					{F: 40, Valence: model.FeelGrounded, Like: 40, Locus: []model.BodyLocusType{model.LocusFeet}},
				},
			},
		}
		if err := st.InsertResult(ctx, rec); err != nil {
			t.Fatalf("insert result: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.HistoryConfig{
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].ID != ids[1] || report.Results[1].ID != ids[2] {
		t.Fatalf("unexpected result ids: %+v", report.Results)
	}
	if len(report.WindowIDs) != 1 || report.WindowIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids: %v", report.WindowIDs)
	}
	if len(report.Feelings) != 2 {
		t.Fatalf("expected peace and grounded in feelings, got %+v", report.Feelings)
	}
	if report.Feelings[0].Count != 2 {
		t.Fatalf("expected two counts for the top feeling, got %+v", report.Feelings[0])
	}
	if len(report.FeelingsWindow) != 2 || report.FeelingsWindow[0].Count != 1 {
		t.Fatalf("unexpected window feelings: %+v", report.FeelingsWindow)
	}
	if len(report.Loci) != 2 {
		t.Fatalf("expected loci aggregates, got %+v", report.Loci)
	}
	if len(report.AllTimeAuras) != 1 || report.AllTimeAuras[0].Count != 3 {
		t.Fatalf("expected all-time aura counts over 3 results, got %+v", report.AllTimeAuras)
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 2, 80, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Results: 2", "Sub-scores", "Feelings", "Body locations", "heart"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, Report{}, 5, 80, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
