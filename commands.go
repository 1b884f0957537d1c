package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/resume-glow/internal/analyze"
	"github.com/olivierh59500/resume-glow/internal/config"
	"github.com/olivierh59500/resume-glow/internal/field"
	"github.com/olivierh59500/resume-glow/internal/resume"
)

// fieldFlags are the simulator parameters shared by window and simulate.
type fieldFlags struct {
	width, height int
	particles     int
	seed          int64
	drift         float64
	tps           int
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 1280, "canvas width in px")
	cmd.Flags().IntVar(&f.height, "height", 720, "canvas height in px")
	cmd.Flags().IntVar(&f.particles, "particles", field.DefaultConfig().ParticleCount, "number of particles")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().Float64Var(&f.drift, "drift", 0, "noise drift strength (0 disables)")
	cmd.Flags().IntVar(&f.tps, "tps", 60, "frames per second")
}

func (f *fieldFlags) simulator() (*field.Simulator, error) {
	cfg := field.DefaultConfig()
	cfg.ParticleCount = f.particles
	cfg.DriftStrength = f.drift
	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := field.New(cfg, float64(f.width), float64(f.height), seed)
	if err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}
	return sim, nil
}

var (
	windowFlags fieldFlags
	resumePath  string

	simulateFlags   fieldFlags
	simulateFrames  int
	analyzingFrames int

	serveTimeout time.Duration
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the animated background in a window",
	Long: `Open the particle field in a window. Press A to toggle analyzing, C to toggle
complete and Esc to quit. With --resume the file is sent for analysis and the
background follows the request: analyzing while it runs, complete on success.`,
	RunE: runWindow,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the particle field headless and report its state",
	RunE:  runSimulate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume analysis API",
	RunE:  runServe,
}

func init() {
	windowFlags.register(windowCmd)
	windowCmd.Flags().StringVar(&resumePath, "resume", "", "resume file (txt, pdf, docx) to analyze")

	simulateFlags.register(simulateCmd)
	simulateCmd.Flags().IntVar(&simulateFrames, "frames", 600, "frames to simulate")
	simulateCmd.Flags().IntVar(&analyzingFrames, "analyzing-frames", 200, "frames spent analyzing before switching to complete")

	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 60*time.Second, "per-request analysis timeout")
}

func runWindow(cmd *cobra.Command, args []string) error {
	sim, err := windowFlags.simulator()
	if err != nil {
		return err
	}
	defer sim.Close()

	game := NewGame(sim)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if resumePath != "" {
		analyzer, err := newAnalyzer(ctx)
		if err != nil {
			return err
		}
		go analyzeInBackground(ctx, game, analyzer, resumePath)
	}

	ebiten.SetWindowSize(windowFlags.width, windowFlags.height)
	ebiten.SetWindowTitle("Resume Glow")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(windowFlags.tps)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// analyzeInBackground drives the game's mode flags from a single analysis request and
// prints the feedback to stdout.
func analyzeInBackground(ctx context.Context, game *Game, analyzer analyze.Analyzer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("could not read resume", "path", path, "error", err)
		return
	}
	text, err := resume.ExtractText(path, data)
	if err != nil {
		slog.Error("could not extract resume text", "path", path, "error", err)
		return
	}

	game.SetComplete(false)
	game.SetAnalyzing(true)
	slog.Info("analyzing resume", "path", path, "words", resume.Stats(text).Words)

	analysis, err := analyzer.Analyze(ctx, text)
	game.SetAnalyzing(false)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return
	}
	game.SetComplete(true)
	fmt.Fprintln(os.Stdout, analysis)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sim, err := simulateFlags.simulator()
	if err != nil {
		return err
	}

	tps := max(simulateFlags.tps, 1)
	var (
		pump  *field.Pump
		last  field.Frame
		links int
	)
	pump = field.NewPump(sim, time.Second/time.Duration(tps), func(f *field.Frame) bool {
		last.Count, last.Mode, last.Progress = f.Count, f.Mode, f.Progress
		links = len(f.Links)

		n := int(f.Count) + 1
		if n == analyzingFrames {
			slog.Info("analysis finished", "frame", n)
			pump.SetMode(false, true)
		}
		if n%tps == 0 {
			slog.Debug("frame", "count", f.Count, "mode", f.Mode, "progress", f.Progress, "links", links)
		}
		return n < simulateFrames
	})
	pump.SetMode(analyzingFrames > 0, analyzingFrames <= 0)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	pump.Run(ctx)

	var dist float64
	for _, p := range sim.Particles() {
		dist += math.Hypot(p.X-p.OriginX, p.Y-p.OriginY)
	}
	dist /= float64(len(sim.Particles()))

	slog.Info("simulation finished",
		"frames", sim.FrameCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"mode", last.Mode,
		"progress", last.Progress,
		"links", links,
		"mean_origin_distance", fmt.Sprintf("%.2f", dist),
	)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	analyzer, err := newAnalyzerFrom(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &analyze.Server{
		Analyzer:    analyzer,
		CORSOrigins: strings.Split(cfg.CORSOrigins, ","),
		Timeout:     serveTimeout,
	}
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func newAnalyzer(ctx context.Context) (analyze.Analyzer, error) {
	return newAnalyzerFrom(ctx, config.Load())
}

func newAnalyzerFrom(ctx context.Context, cfg config.Config) (analyze.Analyzer, error) {
	if err := cfg.Require(); err != nil {
		return nil, err
	}
	g, err := analyze.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	slog.Info("gemini analyzer ready", "model", cfg.GeminiModel)
	return g, nil
}
