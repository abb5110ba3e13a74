// Package main provides the CLI entrypoint for tuicw.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicw/internal/audio"
	"github.com/verte-zerg/tuicw/internal/charset"
	"github.com/verte-zerg/tuicw/internal/config"
	"github.com/verte-zerg/tuicw/internal/model"
	"github.com/verte-zerg/tuicw/internal/morse"
	"github.com/verte-zerg/tuicw/internal/player"
	"github.com/verte-zerg/tuicw/internal/session"
	"github.com/verte-zerg/tuicw/internal/stats"
	"github.com/verte-zerg/tuicw/internal/store"
	"github.com/verte-zerg/tuicw/internal/tui"
)

const (
	defaultWPM         = 20
	defaultFrequency   = 700.0
	defaultVolume      = 0.5
	defaultCharSpacing = 3
	defaultWordSpacing = 7
	defaultGroupSize   = 5
	defaultChars       = 25
	defaultWeakTop     = 8
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultHistory     = 10
)

const defaultCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.,?/=+"

var (
	practiceWPM         int
	practiceFrequency   float64
	practiceVolume      float64
	practiceCharSpacing int
	practiceWordSpacing int
	practiceGroupSize   int
	practiceChars       int
	practiceCharset     string
	practicePreStart    string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakWindow  int

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsHistory     int

	sendWPM         int
	sendFrequency   float64
	sendVolume      float64
	sendCharSpacing int
	sendWordSpacing int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicw",
		Short:         "TUI Morse code copy trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceWPM, "wpm", defaultWPM, "speed in words per minute (5-60)")
	rootCmd.Flags().Float64Var(&practiceFrequency, "freq", defaultFrequency, "sidetone frequency in Hz (400-1200)")
	rootCmd.Flags().Float64Var(&practiceVolume, "volume", defaultVolume, "volume (0-1)")
	rootCmd.Flags().IntVar(&practiceCharSpacing, "char-spacing", defaultCharSpacing, "character spacing in dot units (>=3)")
	rootCmd.Flags().IntVar(&practiceWordSpacing, "word-spacing", defaultWordSpacing, "word spacing in dot units (>=7)")
	rootCmd.Flags().IntVar(&practiceGroupSize, "group", defaultGroupSize, "characters per group (1-10)")
	rootCmd.Flags().IntVar(&practiceChars, "chars", defaultChars, "characters per session (5-200)")
	rootCmd.Flags().StringVar(&practiceCharset, "charset", defaultCharset, "practice character set")
	rootCmd.Flags().StringVar(&practicePreStart, "pre-start", "", "text played before the session, excluded from scoring")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSendCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &practiceWPM, fileCfg.Practice.WPM)
	applyFloatConfig(cmd, "freq", &practiceFrequency, fileCfg.Practice.Frequency)
	applyFloatConfig(cmd, "volume", &practiceVolume, fileCfg.Practice.Volume)
	applyIntConfig(cmd, "char-spacing", &practiceCharSpacing, fileCfg.Practice.CharSpacing)
	applyIntConfig(cmd, "word-spacing", &practiceWordSpacing, fileCfg.Practice.WordSpacing)
	applyIntConfig(cmd, "group", &practiceGroupSize, fileCfg.Practice.GroupSize)
	applyIntConfig(cmd, "chars", &practiceChars, fileCfg.Practice.Chars)
	applyStringConfig(cmd, "charset", &practiceCharset, fileCfg.Practice.Charset)
	applyStringConfig(cmd, "pre-start", &practicePreStart, fileCfg.Practice.PreStart)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	settings := model.Settings{
		WPM:           practiceWPM,
		Frequency:     practiceFrequency,
		Volume:        practiceVolume,
		CharSpacing:   practiceCharSpacing,
		WordSpacing:   practiceWordSpacing,
		GroupSize:     practiceGroupSize,
		NumCharacters: practiceChars,
		PreStartText:  practicePreStart,
		Charset:       practiceCharset,
		FocusWeak:     practiceFocusWeak,
		WeakTop:       practiceWeakTop,
		WeakWindow:    practiceWeakWindow,
	}

	if err := validateSettings(settings); err != nil {
		return err
	}
	chars, err := charset.Normalize(settings.Charset)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	tone := audio.New()
	defer func() {
		if cerr := tone.Close(); cerr != nil {
			logErrf("failed to close audio: %v\n", cerr)
		}
	}()

	ctrl := session.NewController(tone, st, settings, chars)
	if settings.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), settings.WeakWindow)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else if len(aggs) == 0 {
			logErrln("no stats available for weak-char focus yet; using uniform generator")
		} else {
			ctrl.SetWeakSet(stats.SelectWeakChars(aggs, settings.WeakTop))
		}
	}

	m := tui.NewModel(ctrl, settings)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	ctrl.Stop()
	return nil
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsHistory, "history", defaultHistory, "number of recent sessions to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Sessions, cfg.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderCharTable(out, "Per-Character (Windowed)", report.CharAggsWindow); err != nil {
		return err
	}
	if err := stats.RenderCharTable(out, "Per-Character (All Time)", report.CharAggsAll); err != nil {
		return err
	}
	records, err := st.ListRecords(ctx, statsHistory)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	return stats.RenderHistory(out, records)
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Play text as Morse code",
		Long:  "Play the given text (or stdin, line by line) as Morse code audio. No session is recorded.",
		RunE:  runSendCmd,
	}
	cmd.Flags().IntVar(&sendWPM, "wpm", defaultWPM, "speed in words per minute (5-60)")
	cmd.Flags().Float64Var(&sendFrequency, "freq", defaultFrequency, "sidetone frequency in Hz (400-1200)")
	cmd.Flags().Float64Var(&sendVolume, "volume", defaultVolume, "volume (0-1)")
	cmd.Flags().IntVar(&sendCharSpacing, "char-spacing", defaultCharSpacing, "character spacing in dot units (>=3)")
	cmd.Flags().IntVar(&sendWordSpacing, "word-spacing", defaultWordSpacing, "word spacing in dot units (>=7)")
	return cmd
}

func runSendCmd(cmd *cobra.Command, args []string) error {
	if sendWPM < 5 || sendWPM > 60 {
		return fmt.Errorf("--wpm must be between 5 and 60")
	}
	tone := audio.New()
	defer func() {
		if cerr := tone.Close(); cerr != nil {
			logErrf("failed to close audio: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	unit := morse.Unit(sendWPM)
	opts := player.Options{
		Frequency:   sendFrequency,
		Volume:      sendVolume,
		CharSpacing: sendCharSpacing,
		WordSpacing: sendWordSpacing,
	}
	out := cmd.OutOrStdout()
	progress := func(r rune) {
		if _, err := fmt.Fprintf(out, "%c", r); err != nil {
			// Best-effort echo of played characters.
			_ = err
		}
	}

	play := func(text string) error {
		outcome, err := player.Play(ctx, tone, morse.Compile(text), unit, opts, progress)
		if err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if outcome == player.Cancelled {
			return fmt.Errorf("playback cancelled")
		}
		return nil
	}

	if len(args) > 0 {
		return play(strings.Join(args, " "))
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := play(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

func validateSettings(s model.Settings) error {
	if s.WPM < 5 || s.WPM > 60 {
		return fmt.Errorf("--wpm must be between 5 and 60")
	}
	if s.Frequency < 400 || s.Frequency > 1200 {
		return fmt.Errorf("--freq must be between 400 and 1200")
	}
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	if s.CharSpacing < 3 {
		return fmt.Errorf("--char-spacing must be >= 3")
	}
	if s.WordSpacing < 7 {
		return fmt.Errorf("--word-spacing must be >= 7")
	}
	if s.GroupSize < 1 || s.GroupSize > 10 {
		return fmt.Errorf("--group must be between 1 and 10")
	}
	if s.NumCharacters < 5 || s.NumCharacters > 200 {
		return fmt.Errorf("--chars must be between 5 and 200")
	}
	if s.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if s.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicw configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# wpm = %d               # Speed in words per minute (5-60)
# frequency = %.0f       # Sidetone frequency in Hz (400-1200)
# volume = %.2f          # Volume (0-1)
# char-spacing = %d      # Character spacing in dot units (>=3)
# word-spacing = %d      # Word spacing in dot units (>=7)
# group-size = %d        # Characters per group (1-10)
# chars = %d             # Characters per session (5-200)
# charset = %q
# pre-start = ""         # Text played before the session, excluded from scoring
# focus-weak = false     # Bias practice toward weak characters
# weak-top = %d          # Number of weak characters to focus on
# weak-window = %d       # Number of recent sessions to compute weak chars
`,
		defaultWPM,
		defaultFrequency,
		defaultVolume,
		defaultCharSpacing,
		defaultWordSpacing,
		defaultGroupSize,
		defaultChars,
		defaultCharset,
		defaultWeakTop,
		defaultWeakWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
