package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bannerloop/internal/config"
	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
	"bannerloop/internal/log"
	"bannerloop/internal/remote"
	"bannerloop/internal/ui"
)

const debugLogFile = "bannerloop.log"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the carousel (default)",
	Long: `Start the carousel in the terminal.

With --listen the current position is streamed to websocket clients at
/ws, and clients may send {"action":"next"|"previous"|"goto","index":n}.`,
	Args: cobra.NoArgs,
	RunE: runCarousel,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("listen", "l", "", "Serve the websocket remote on this address, e.g. :8080")
	cmd.Flags().Bool("no-autoplay", false, "Start with autoplay off")
	cmd.Flags().String("log-file", "", "Write logs to this file")
	cmd.Flags().String("log-level", "", "Log level: error, warn, info or debug")
	cmd.Flags().Bool("debug", false, "Log at debug level to "+debugLogFile)
}

// applyRunFlags overrides config values with explicitly set flags
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Remote.Listen, _ = flags.GetString("listen")
	}
	if noAutoplay, _ := flags.GetBool("no-autoplay"); noAutoplay {
		cfg.Autoplay.Enabled = false
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		if cfg.Logging.File == "" {
			cfg.Logging.File = debugLogFile
		}
	}
}

// setupLogging points the process logger at the configured file. The
// returned func closes it.
func setupLogging(lc config.LoggingConfig) (func(), error) {
	if lc.File == "" {
		return func() {}, nil
	}
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Enable(f)
	log.SetLevel(level)
	return func() {
		log.Disable()
		_ = f.Close()
	}, nil
}

func runCarousel(cmd *cobra.Command, args []string) error {
	bus := eventbus.New()
	defer bus.Close()

	cfg, err := config.NewConfigServiceWithBus(configPath, bus).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting", "version", version, "items", len(cfg.Items), "autoplay", cfg.Autoplay.Enabled)

	model := ui.NewModel(cfg, bus)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(p)

	// remote commands are applied on the program's own loop
	unsubCommands := bus.Subscribe(eventbus.EventRemoteCommand, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubCommands()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Remote.Listen != "" {
		srv := remote.NewServer(log.Logger(), bus, remote.ServerConfig{})
		srv.PublishPosition(domain.Position{Index: 0, Count: len(cfg.Items)})
		unsubIndex := bus.Subscribe(eventbus.EventIndexChanged, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.IndexChangedEvent); ok {
				srv.PublishPosition(domain.Position{Index: ev.New, Count: ev.Count})
			}
		})
		defer unsubIndex()

		g.Go(func() error {
			return srv.ListenAndServe(ctx, cfg.Remote.Listen)
		})
	}

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run program: %w", err)
		}
		log.Info("program exited")
		return nil
	})

	// a signal or a failed server ends the program
	g.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})

	return g.Wait()
}
