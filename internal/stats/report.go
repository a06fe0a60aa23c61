package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Results        []model.ResultSummary
	WindowIDs      []string
	Feelings       []model.LabelAggregate
	Loci           []model.LabelAggregate
	FeelingsWindow []model.LabelAggregate
	AllTimeAuras   []model.AuraCount
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	allIDs := resultIDs(results)
	windowIDs := lastResultIDs(results, cfg.CurveWindow)

	feelings, err := st.ListLabelAggregates(ctx, allIDs, model.LabelFeel)
	if err != nil {
		return Report{}, err
	}
	loci, err := st.ListLabelAggregates(ctx, allIDs, model.LabelLocus)
	if err != nil {
		return Report{}, err
	}
	feelingsWindow, err := st.ListLabelAggregates(ctx, windowIDs, model.LabelFeel)
	if err != nil {
		return Report{}, err
	}
	auras, err := st.AuraCounts(ctx)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Results:        results,
		WindowIDs:      windowIDs,
		Feelings:       feelings,
		Loci:           loci,
		FeelingsWindow: feelingsWindow,
		AllTimeAuras:   auras,
	}, nil
}

// RenderReport prints the full plain-text history report.
func RenderReport(w io.Writer, r Report, window, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := RenderCurvesWithSize(w, r.Results, window, totalWidth, defaultPlotHeight, useColor); err != nil {
		return err
	}
	if err := RenderResultTable(w, r.Results); err != nil {
		return err
	}
	if err := RenderLabelTable(w, "Feelings", r.Feelings); err != nil {
		return err
	}
	if err := RenderLabelTable(w, "Feelings (recent window)", r.FeelingsWindow); err != nil {
		return err
	}
	return RenderLabelTable(w, "Body locations", r.Loci)
}

func resultIDs(results []model.ResultSummary) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func lastResultIDs(results []model.ResultSummary, window int) []string {
	if window <= 0 || len(results) <= window {
		return resultIDs(results)
	}
	return resultIDs(results[len(results)-window:])
}
