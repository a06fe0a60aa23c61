// Package main provides the CLI entrypoint for freqprofile.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/freqprofile/internal/config"
	"github.com/verte-zerg/freqprofile/internal/generator"
	"github.com/verte-zerg/freqprofile/internal/historyui"
	"github.com/verte-zerg/freqprofile/internal/logging"
	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/scoring"
	"github.com/verte-zerg/freqprofile/internal/session"
	"github.com/verte-zerg/freqprofile/internal/stats"
	"github.com/verte-zerg/freqprofile/internal/store"
	"github.com/verte-zerg/freqprofile/internal/tui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	logLevel string

	quizSession          string
	quizSeed             int64
	quizShuffleTone      bool
	quizChronoTrials     int
	quizNaturalCycles    int
	quizDeepBreaths      int
	quizStabilitySeconds int

	scoreSave   bool
	scoreFormat string

	showFormat string

	historySince       string
	historyLast        int
	historyCurveWindow int
	historyAura        string
	historyPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "freqprofile",
		Short:         "Frequency profile test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&quizSession, "session", "", "session file with frequency ratings to merge (json, yaml or toml)")
	rootCmd.Flags().Int64Var(&quizSeed, "seed", 0, "seed for the tone pair order (0 = random)")
	rootCmd.Flags().BoolVar(&quizShuffleTone, "shuffle-tone", true, "shuffle tone pairs and swap sides")
	rootCmd.Flags().IntVar(&quizChronoTrials, "chrono-trials", config.DefaultChronoTrials, "time estimation trials (max 10)")
	rootCmd.Flags().IntVar(&quizNaturalCycles, "natural-cycles", config.DefaultNaturalCycles, "natural breath cycles to record")
	rootCmd.Flags().IntVar(&quizDeepBreaths, "deep-breaths", config.DefaultDeepBreaths, "deep breaths to record")
	rootCmd.Flags().IntVar(&quizStabilitySeconds, "stability-seconds", config.DefaultStabilitySeconds, "duration of the tracking test")

	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStimuliCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.Config{
		Name:       "freqprofile",
		Level:      logLevel,
		Format:     config.DefaultLogFormat,
		File:       config.DefaultLogPath(),
		MaxSize:    config.DefaultLogMaxSize,
		MaxBackups: config.DefaultLogMaxBackups,
		MaxAge:     config.DefaultLogMaxAge,
	}
	setIfPresent(&logCfg.Format, cfg.Format)
	setIfPresent(&logCfg.File, cfg.File)
	setIfPresent(&logCfg.MaxSize, cfg.MaxSize)
	setIfPresent(&logCfg.MaxBackups, cfg.MaxBackups)
	setIfPresent(&logCfg.MaxAge, cfg.MaxAge)
	setIfPresent(&logCfg.Compress, cfg.Compress)
	logger, err := logging.New(logCfg, zapcore.Lock(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

func closeLogger(logger *logging.Logger) {
	if cerr := logger.Close(); cerr != nil {
		// Best-effort flush on exit.
		_ = cerr
	}
}

func openStore(logger *logging.Logger) (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", zap.Error(cerr))
		}
	}, nil
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyInt64Config(cmd, "seed", &quizSeed, fileCfg.Quiz.Seed)
	applyBoolConfig(cmd, "shuffle-tone", &quizShuffleTone, fileCfg.Quiz.ShuffleTone)
	applyIntConfig(cmd, "chrono-trials", &quizChronoTrials, fileCfg.Quiz.ChronoTrials)
	applyIntConfig(cmd, "natural-cycles", &quizNaturalCycles, fileCfg.Quiz.NaturalCycles)
	applyIntConfig(cmd, "deep-breaths", &quizDeepBreaths, fileCfg.Quiz.DeepBreaths)
	applyIntConfig(cmd, "stability-seconds", &quizStabilitySeconds, fileCfg.Quiz.StabilitySeconds)

	cfg := model.QuizConfig{
		Seed:             quizSeed,
		ShuffleTone:      quizShuffleTone,
		ChronoTrials:     quizChronoTrials,
		NaturalCycles:    quizNaturalCycles,
		DeepBreaths:      quizDeepBreaths,
		StabilitySeconds: quizStabilitySeconds,
	}
	if err := validateQuizConfig(cfg); err != nil {
		return err
	}

	logger, err := newLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLogger(logger)

	var ratings model.Session
	if quizSession != "" {
		ratings, err = session.Load(quizSession)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		logger.Debug("session file loaded", zap.String("path", quizSession), zap.Strings("parts", session.Parts(ratings)))
	}

	st, closeStore, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	capture := tui.NewModel(gen.Plan(cfg), gen, tui.WithLogger(logger.FileOnly()))
	program := tea.NewProgram(capture, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if capture.Aborted() {
		logger.Info("capture aborted; nothing saved")
		return nil
	}

	s := session.Prepare(session.Merge(capture.Session(), ratings), time.Now())
	rec := scoreRecord(s)
	if err := st.InsertResult(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	logger.Info("result saved", zap.String("id", rec.ID), zap.Int("fqi", rec.Result.Scores.FQI))
	return stats.RenderCard(cmd.OutOrStdout(), rec, time.Now())
}

func scoreRecord(s model.Session) model.ResultRecord {
	return model.ResultRecord{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Result:    scoring.ComputeResults(s),
		Session:   s,
	}
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Score a session file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScoreCmd,
	}
	cmd.Flags().BoolVar(&scoreSave, "save", false, "store the result in the history")
	cmd.Flags().StringVar(&scoreFormat, "format", "text", "output format (text or json)")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	if err := validateFormat(scoreFormat); err != nil {
		return err
	}
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLogger(logger)

	s, err := session.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	rec := scoreRecord(session.Prepare(s, time.Now()))
	logger.Debug("session scored", zap.String("id", rec.ID), zap.Strings("parts", session.Parts(s)))

	if scoreSave {
		st, closeStore, err := openStore(logger)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := st.InsertResult(context.Background(), rec); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		logger.Info("result saved", zap.String("id", rec.ID))
	}
	return writeRecord(cmd.OutOrStdout(), rec, scoreFormat)
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored result",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().StringVar(&showFormat, "format", "text", "output format (text or json)")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	if err := validateFormat(showFormat); err != nil {
		return err
	}
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLogger(logger)

	st, closeStore, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()
	rec, err := st.GetResult(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load result %q: %w", args[0], err)
	}
	return writeRecord(cmd.OutOrStdout(), rec, showFormat)
}

func writeRecord(w io.Writer, rec model.ResultRecord, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return stats.RenderCard(w, rec, time.Now())
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show result history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", config.DefaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&historyAura, "aura", "", "archetype filter")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a plain text report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "curve-window", &historyCurveWindow, fileCfg.History.CurveWindow)
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)

	cfg, err := buildHistoryConfig(historySince, historyLast, historyCurveWindow, historyAura)
	if err != nil {
		return err
	}

	logger, err := newLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLogger(logger)

	st, closeStore, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if historyPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, 0, false)
	}

	program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func buildHistoryConfig(since string, last, window int, aura string) (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{Last: last, CurveWindow: window}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if aura != "" {
		a, ok := model.ParseAuraType(aura)
		if !ok {
			return cfg, fmt.Errorf("unknown archetype %q", aura)
		}
		cfg.Aura = a
	}
	return cfg, nil
}

func newStimuliCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stimuli",
		Short: "List the test frequencies and tone pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeStimuli(cmd.OutOrStdout())
		},
	}
}

// freePickStops are slider positions shown on the free pick scale.
var freePickStops = []float64{0, 0.25, 0.5, 0.75, 1}

func writeStimuli(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Fixed frequencies (Hz): " + joinHz(generator.FixedFrequencies) + "\n")
	b.WriteString("Prefeel frequencies (Hz): " + joinHz(generator.PrefeelFrequencies) + "\n")
	stops := make([]float64, len(freePickStops))
	for i, v := range freePickStops {
		stops[i] = scoring.FreePickFrequency(v)
	}
	b.WriteString("Free pick scale (Hz): " + joinHz(stops) + "\n")
	fmt.Fprintf(&b, "Anchor: %.0f Hz\n\nTone pairs\n", scoring.AnchorHz)

	width := 0
	for _, p := range generator.TonePairs {
		width = max(width, runewidth.StringWidth(p.Left.Label))
	}
	for _, p := range generator.TonePairs {
		fmt.Fprintf(&b, "%d. %s %s  %s %s\n",
			p.ID,
			runewidth.FillRight(p.Left.Label, width), formatVector(p.Left.Vector),
			p.Right.Label, formatVector(p.Right.Vector))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinHz(freqs []float64) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = fmt.Sprintf("%.0f", f)
	}
	return strings.Join(parts, ", ")
}

func formatVector(v [3]float64) string {
	return fmt.Sprintf("[%+.0f %+.0f %+.0f]", v[0], v[1], v[2])
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if _, err := config.EnsureConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func validateQuizConfig(cfg model.QuizConfig) error {
	if cfg.ChronoTrials < 1 || cfg.ChronoTrials > 10 {
		return fmt.Errorf("--chrono-trials must be between 1 and 10")
	}
	if cfg.NaturalCycles < 1 {
		return fmt.Errorf("--natural-cycles must be > 0")
	}
	if cfg.DeepBreaths < 1 {
		return fmt.Errorf("--deep-breaths must be > 0")
	}
	if cfg.StabilitySeconds < 1 {
		return fmt.Errorf("--stability-seconds must be > 0")
	}
	return nil
}

func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("--format must be text or json")
	}
	return nil
}

func setIfPresent[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
