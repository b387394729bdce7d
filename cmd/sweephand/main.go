// Command sweephand runs the clock-face simulator: it anchors wall time to
// an external time source, keeps it synchronized on a cadence, and renders
// the hand angles on the terminal.
//
// Signals:
//
//	SIGINT/SIGTERM  graceful shutdown with a sync report
//	SIGUSR1         trigger a manual resync
//	SIGUSR2         cycle to the next second-hand speed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"sweephand"
	"sweephand/internal/clockface"
	"sweephand/internal/config"
	"sweephand/internal/core"
	"sweephand/internal/prefs"
	"sweephand/internal/progress"
	"sweephand/internal/provider"
	"sweephand/internal/stats"
	"sweephand/internal/timesync"
)

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	zone := flag.String("zone", "", "IANA time zone (overrides config)")
	speed := flag.String("speed", "", "second-hand speed multiplier (overrides config and saved preference)")
	duration := flag.Duration("duration", 0, "run duration (0 = until interrupted)")
	output := flag.String("output", "text", "report format: text, json")
	quiet := flag.Bool("quiet", false, "suppress the live clock line")
	verbose := flag.Bool("verbose", false, "enable debug output (request/response logging)")
	flag.Parse()

	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		os.Exit(ExitError)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
		cfg = loaded
	}
	if *zone != "" {
		cfg.TimeZone = *zone
	}

	store := openPrefs()
	resolveSpeed(cfg, store, *speed)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else if !*quiet {
		// The live clock line owns stderr; keep log noise down.
		log.SetLevel(logrus.WarnLevel)
	}

	engine, err := sweephand.New(&core.RealClock{}, loc, cfg.Clock.Speeds, cfg.Clock.Speed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	var debugLogger *provider.DebugLogger
	if *verbose {
		debugLogger = provider.NewDebugLogger(os.Stderr)
	}

	var source core.TimeSource
	if len(cfg.Provider.Command) > 0 {
		source = &provider.CommandProvider{Argv: cfg.Provider.Command}
	} else {
		source = provider.NewHTTPProvider(cfg.Provider.URL, cfg.Provider.Timeout, loc, debugLogger)
	}

	collector := stats.NewCollector()
	scheduler := &timesync.Scheduler{
		Source:   source,
		Anchor:   engine,
		Clock:    &core.RealClock{},
		Zone:     cfg.TimeZone,
		Cadence:  &timesync.Cadence{Normal: cfg.Sync.Interval, Retry: cfg.Sync.RetryIntervals},
		Limiter:  timesync.NewManualLimiter(cfg.Sync.ManualMinGap),
		Reporter: collector,
		Log:      log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
	}
	defer cancel()

	renderer := progress.NewRenderer(engine, scheduler, cfg.Clock.Refresh, *quiet)
	renderer.Printf("sweephand: zone %s, speed %gx, sync every %v via %s",
		cfg.TimeZone, engine.Speed(), cfg.Sync.Interval, source.Name())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				if scheduler.RequestSync(true) {
					renderer.Printf("manual resync requested")
				}
			case syscall.SIGUSR2:
				next := engine.CycleSpeed()
				renderer.Printf("speed set to %gx", next)
				if store != nil {
					if err := store.SetFloat(prefs.KeySpeed, next); err != nil {
						log.WithError(err).Warn("saving speed preference")
					}
				}
			default:
				renderer.Printf("shutting down...")
				cancel()
				return
			}
		}
	}()

	renderer.Start()
	scheduler.Run(ctx)
	renderer.Stop()
	collector.Close()

	summary := stats.ComputeSummary(collector.Attempts(), collector.Window())
	var thresholdResults *stats.ThresholdResults
	if cfg.Thresholds != nil {
		thresholdResults = cfg.Thresholds.Check(summary)
	}

	if *output == "json" {
		stats.FormatJSON(os.Stdout, summary, thresholdResults)
	} else {
		stats.FormatText(os.Stdout, summary, thresholdResults)
	}

	if thresholdResults != nil && !thresholdResults.Passed {
		if *output == "text" {
			fmt.Fprintln(os.Stderr, "\nThreshold check failed!")
		}
		os.Exit(ExitThresholdFailed)
	}

	os.Exit(ExitSuccess)
}

// openPrefs opens the preference store at its XDG state path. Preferences
// are best-effort; a nil store disables persistence.
func openPrefs() *prefs.Store {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil
	}
	return prefs.Open(path)
}

// resolveSpeed picks the active multiplier: an explicit flag wins, then the
// saved preference, then the config value.
func resolveSpeed(cfg *config.Config, store *prefs.Store, flagValue string) {
	if flagValue != "" {
		if f, err := strconv.ParseFloat(flagValue, 64); err == nil {
			cfg.Clock.Speed = f
		} else {
			fmt.Fprintf(os.Stderr, "error: invalid --speed %q\n", flagValue)
			os.Exit(ExitError)
		}
		return
	}
	if store != nil {
		// A stale preference outside the configured set is ignored rather
		// than failing startup.
		if f, ok := store.Float(prefs.KeySpeed); ok && clockface.ValidMultiplier(cfg.Clock.Speeds, f) {
			cfg.Clock.Speed = f
		}
	}
}
