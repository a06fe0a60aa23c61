package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/freqprofile/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "freqprofile.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func record(id string, at time.Time, fqi int, aura model.AuraType) model.ResultRecord {
	breath := model.BreathData{InhaleAvg: 4000, ExhaleAvg: 5000, Ratio: 0.8, BPM: 6.7, Score: 86}
	return model.ResultRecord{
		ID:        id,
		CreatedAt: at,
		Result: model.Result{
			Scores: model.Scores{FFreq: 70, Chrono: 80, Stability: 75, Tone: 66, Breath: 86, FQI: fqi, Percentile: 55},
			Aura:   model.AuraInfo{Type: aura, Secondary: model.AuraZephyr},
		},
		Session: model.Session{
			ID:        id,
			CreatedAt: at,
			Fixed: []model.FixedFreqItem{
				{F: 432, Valence: model.FeelPeace, Like: 90, Locus: []model.BodyLocusType{model.LocusHeart, model.LocusCrown}},
				{F: 528, Valence: model.FeelPeace, Like: 70, Locus: []model.BodyLocusType{model.LocusHeart}},
				{F: 8000, Valence: model.FeelTension, Like: 5, Locus: []model.BodyLocusType{model.LocusEars}},
			},
			Breath: &breath,
		},
	}
}

func TestInsertAndGetResult(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.May, 2, 9, 30, 0, 0, time.UTC)
	rec := record("0a1b2c3d-0000-4000-8000-000000000001", at, 112, model.AuraLunar)

	require.NoError(t, st.InsertResult(ctx, rec))

	got, err := st.GetResult(ctx, rec.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("stored record mismatch (-want +got):\n%s", diff)
	}

	byPrefix, err := st.GetResult(ctx, "0a1b2c3d")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byPrefix.ID)
}

func TestGetResultErrors(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.May, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, st.InsertResult(ctx, record("abc-1", at, 100, model.AuraSolar)))
	require.NoError(t, st.InsertResult(ctx, record("abc-2", at.Add(time.Hour), 101, model.AuraSolar)))

	_, err := st.GetResult(ctx, "zzz")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = st.GetResult(ctx, "")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = st.GetResult(ctx, "abc")
	assert.True(t, errors.Is(err, ErrAmbiguous))

	exact, err := st.GetResult(ctx, "abc-1")
	require.NoError(t, err)
	assert.Equal(t, 100, exact.Result.Scores.FQI)
}

func TestGetResultTreatsPrefixLiterally(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.May, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, st.InsertResult(ctx, record("abc-1", at, 100, model.AuraSolar)))

	for _, prefix := range []string{"_", "%", "a_c", "ab%"} {
		_, err := st.GetResult(ctx, prefix)
		assert.True(t, errors.Is(err, ErrNotFound), "prefix %q", prefix)
	}
}

func TestListResultsOrdersWithinSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 2, 9, 30, 5, 0, time.UTC)
	require.NoError(t, st.InsertResult(ctx, record("r-120ms", base.Add(120*time.Millisecond), 103, model.AuraSolar)))
	require.NoError(t, st.InsertResult(ctx, record("r-100ms", base.Add(100*time.Millisecond), 102, model.AuraSolar)))
	require.NoError(t, st.InsertResult(ctx, record("r-500ms", base.Add(500*time.Millisecond), 104, model.AuraSolar)))
	require.NoError(t, st.InsertResult(ctx, record("r-0ms", base, 101, model.AuraSolar)))

	all, err := st.ListResults(ctx, model.HistoryConfig{})
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"r-0ms", "r-100ms", "r-120ms", "r-500ms"}, ids)

	last, err := st.ListResults(ctx, model.HistoryConfig{Last: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "r-500ms", last[0].ID)

	since := base.Add(110 * time.Millisecond)
	recent, err := st.ListResults(ctx, model.HistoryConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestInsertDuplicateRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := record("dup", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 90, model.AuraTerra)
	require.NoError(t, st.InsertResult(ctx, rec))
	require.Error(t, st.InsertResult(ctx, rec))

	labels, err := st.ListLabelAggregates(ctx, []string{"dup"}, model.LabelFeel)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, 2, labels[0].Count)

	assert.Error(t, st.InsertResult(ctx, model.ResultRecord{}))
}

func TestListResultsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	auras := []model.AuraType{model.AuraSolar, model.AuraLunar, model.AuraSolar, model.AuraTerra, model.AuraSolar}
	for i, aura := range auras {
		id := string(rune('a'+i)) + "-result"
		require.NoError(t, st.InsertResult(ctx, record(id, base.Add(time.Duration(i)*24*time.Hour), 90+i, aura)))
	}

	all, err := st.ListResults(ctx, model.HistoryConfig{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "a-result", all[0].ID)
	assert.Equal(t, 94, all[4].Scores.FQI)
	assert.True(t, all[0].CreatedAt.Equal(base))

	last, err := st.ListResults(ctx, model.HistoryConfig{Last: 2})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, []string{"d-result", "e-result"}, []string{last[0].ID, last[1].ID})

	since := base.Add(36 * time.Hour)
	recent, err := st.ListResults(ctx, model.HistoryConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	solar, err := st.ListResults(ctx, model.HistoryConfig{Aura: model.AuraSolar, Last: 2})
	require.NoError(t, err)
	require.Len(t, solar, 2)
	assert.Equal(t, "c-result", solar[0].ID)
	assert.Equal(t, model.AuraZephyr, solar[0].Aura.Secondary)
}

func TestAuraCounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)
	for i, aura := range []model.AuraType{model.AuraLunar, model.AuraAether, model.AuraLunar} {
		require.NoError(t, st.InsertResult(ctx, record(string(rune('x'+i)), base.Add(time.Duration(i)*time.Minute), 100, aura)))
	}
	counts, err := st.AuraCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.AuraCount{{Aura: model.AuraLunar, Count: 2}, {Aura: model.AuraAether, Count: 1}}, counts)
}

func TestListLabelAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, st.InsertResult(ctx, record("r1", base, 100, model.AuraLunar)))
	require.NoError(t, st.InsertResult(ctx, record("r2", base.Add(time.Hour), 100, model.AuraLunar)))

	loci, err := st.ListLabelAggregates(ctx, []string{"r1", "r2"}, model.LabelLocus)
	require.NoError(t, err)
	require.Len(t, loci, 3)
	assert.Equal(t, model.LabelAggregate{Kind: model.LabelLocus, Label: "heart", Count: 4, LikeSum: 320}, loci[0])

	none, err := st.ListLabelAggregates(ctx, nil, model.LabelFeel)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLabelCounts(t *testing.T) {
	got := LabelCounts(record("r", time.Time{}, 0, model.AuraTerra).Session.Fixed)
	want := []model.LabelAggregate{
		{Kind: model.LabelFeel, Label: "peace", Count: 2, LikeSum: 160},
		{Kind: model.LabelLocus, Label: "heart", Count: 2, LikeSum: 160},
		{Kind: model.LabelLocus, Label: "crown", Count: 1, LikeSum: 90},
		{Kind: model.LabelFeel, Label: "tension", Count: 1, LikeSum: 5},
		{Kind: model.LabelLocus, Label: "ears", Count: 1, LikeSum: 5},
	}
	assert.Equal(t, want, got)
}
