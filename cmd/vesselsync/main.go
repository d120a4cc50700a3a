package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	vesselsync "github.com/bluefin-labs/vesselsync"
	"github.com/bluefin-labs/vesselsync/internal/adapters/console"
	logadapter "github.com/bluefin-labs/vesselsync/internal/adapters/log"
	"github.com/bluefin-labs/vesselsync/internal/adapters/web"
	"github.com/bluefin-labs/vesselsync/internal/cliconfig"
)

const helpDescription = `
Synchronize a vessel valve dashboard backend with a local Leaflet map page.

Highlights:
  - Pulls the full land/zone/vessel snapshot for a dataset and renders it.
  - Toggles vessel valves with single-flight protection per vessel.
  - Tracks the valve-open audit log, flagging events inside the buffer zone.
  - Watch mode keeps the page fresh and reloads config on file change.

Zone containment is decided server-side; this tool only displays it.
`

var exampleUsage = strings.TrimSpace(`
  vesselsync load uk --out ukmap.html
  vesselsync toggle 301
  vesselsync history
  vesselsync watch croatia --poll 10s
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  zerolog.Logger
}

func main() {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		logger: cliconfig.Logger(),
	}

	root := &cobra.Command{
		Use:           "vesselsync",
		Short:         "Synchronize a vessel valve dashboard backend with a local map page",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.resolveConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default ~/.vesselsync/config.toml)")
	pf.StringVar(&c.cfg.BaseURL, "base-url", c.cfg.BaseURL, "dashboard backend base URL")
	pf.StringVar(&c.cfg.OutputPath, "out", c.cfg.OutputPath, "output path for the rendered map page")
	pf.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP request timeout")
	pf.DurationVar(&c.cfg.PollInterval, "poll", c.cfg.PollInterval, "vessel refresh interval in watch mode")
	pf.DurationVar(&c.cfg.HistoryInterval, "history-interval", c.cfg.HistoryInterval, "history refresh interval in watch mode")
	pf.BoolVarP(&c.cfg.Verbose, "verbose", "v", c.cfg.Verbose, "enable debug logging")

	root.AddCommand(
		c.newLoadCmd(),
		c.newToggleCmd(),
		c.newOpenCmd(),
		c.newHistoryCmd(),
		c.newRandomiseCmd(),
		c.newWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		c.logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// resolveConfig layers config file, then environment, then explicit flags.
func (c *cli) resolveConfig(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	if c.cfg.Verbose {
		c.logger = c.logger.Level(zerolog.DebugLevel)
	} else {
		c.logger = c.logger.Level(zerolog.InfoLevel)
	}
	return nil
}

func (c *cli) sessionConfig() vesselsync.Config {
	return vesselsync.Config{
		BaseURL:         c.cfg.BaseURL,
		HTTPTimeout:     c.cfg.HTTPTimeout,
		PollInterval:    c.cfg.PollInterval,
		HistoryInterval: c.cfg.HistoryInterval,
	}
}

func (c *cli) libLogger() vesselsync.Logger {
	return logadapter.NewZerologAdapterWithLogger(c.logger)
}

// pageSurfaces exposes one page as the full surface bundle.
func pageSurfaces(page *web.Page) vesselsync.Surfaces {
	return vesselsync.Surfaces{
		Markers:  page,
		Zone:     page,
		Viewport: page,
		Status:   page,
		History:  page,
	}
}

func (c *cli) newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <dataset>",
		Short: "Load a dataset snapshot and render the map page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := web.NewPage("Vessel Valve Monitor - " + args[0])
			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
				vesselsync.WithSurfaces(pageSurfaces(page)),
			)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.Load(ctx, args[0]); err != nil {
				return err
			}
			if err := s.RefreshHistory(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("history refresh failed")
			}
			if err := page.WriteFile(c.cfg.OutputPath); err != nil {
				return err
			}
			c.logger.Info().
				Str("dataset", args[0]).
				Int("vessels", len(s.Vessels())).
				Str("out", c.cfg.OutputPath).
				Msg("map page written")
			return nil
		},
	}
}

func (c *cli) newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <vessel-id>",
		Short: "Toggle one vessel's valve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vessel id %q", args[0])
			}
			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
			)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.RefreshVessels(ctx); err != nil {
				return err
			}
			res, err := s.Toggle(ctx, id)
			if err != nil {
				return err
			}
			state := "CLOSED"
			if res.ValveOpen {
				state = "OPEN"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vessel %d valve is now %s\n", res.VesselID, state)
			return nil
		},
	}
}

func (c *cli) newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <vessel-id>",
		Short: "Report a valve-open event for one vessel at its current position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vessel id %q", args[0])
			}
			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
			)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.RefreshVessels(ctx); err != nil {
				return err
			}
			report, err := s.ReportOpen(ctx, id)
			if err != nil {
				return err
			}
			if report.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), report.Message)
			}
			if report.Log != nil {
				zone := "outside zone"
				if report.Log.InZone {
					zone = "INSIDE ZONE"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged at %s (%s)\n", report.Log.Timestamp, zone)
			}
			return nil
		},
	}
}

func (c *cli) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the valve-open audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			surface := console.NewSurface(c.libLogger(), cmd.OutOrStdout())
			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
				vesselsync.WithSurfaces(vesselsync.Surfaces{
					Markers:  surface,
					Zone:     surface,
					Viewport: surface,
					Status:   surface,
					History:  surface,
				}),
			)
			if err != nil {
				return err
			}
			return s.RefreshHistory(cmd.Context())
		},
	}
}

func (c *cli) newRandomiseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "randomise <dataset>",
		Short: "Regenerate a dataset's vessels server-side and re-render the page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := web.NewPage("Vessel Valve Monitor - " + args[0])
			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
				vesselsync.WithSurfaces(pageSurfaces(page)),
			)
			if err != nil {
				return err
			}
			if err := s.Randomise(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := page.WriteFile(c.cfg.OutputPath); err != nil {
				return err
			}
			c.logger.Info().Str("out", c.cfg.OutputPath).Msg("map page rewritten")
			return nil
		},
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dataset>",
		Short: "Keep the map page synchronized with the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := web.NewPage("Vessel Valve Monitor - " + args[0])
			writer := &pageWriter{page: page, path: c.cfg.OutputPath, logger: c.logger}

			s, err := vesselsync.New(c.sessionConfig(),
				vesselsync.WithLogger(c.libLogger()),
				vesselsync.WithSurfaces(pageSurfaces(page)),
				vesselsync.WithEventHandler(writer),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := s.Load(ctx, args[0]); err != nil {
				return err
			}
			if err := s.RefreshHistory(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("initial history refresh failed")
			}
			writer.flush()

			// Reload runtime-safe settings when the config file changes.
			watchPath := c.cfgPath
			if watchPath == "" {
				watchPath = cliconfig.DefaultConfigPath()
			}
			watcher := cliconfig.NewWatcher(watchPath, c.cfg, func(next cliconfig.Config) {
				s.ApplyConfig(vesselsync.Config{
					BaseURL:         next.BaseURL,
					HTTPTimeout:     next.HTTPTimeout,
					PollInterval:    next.PollInterval,
					HistoryInterval: next.HistoryInterval,
				})
			}, c.logger)
			go watcher.Run(ctx)

			if err := s.Start(ctx); err != nil {
				return err
			}
			c.logger.Info().
				Str("dataset", args[0]).
				Str("out", c.cfg.OutputPath).
				Msg("watching")

			<-ctx.Done()
			return s.Stop()
		},
	}
}

// pageWriter rewrites the map page whenever session state changes.
type pageWriter struct {
	page   *web.Page
	path   string
	logger zerolog.Logger
}

func (w *pageWriter) flush() {
	if err := w.page.WriteFile(w.path); err != nil {
		w.logger.Warn().Err(err).Msg("page write failed")
	}
}

func (w *pageWriter) OnStateChange(vesselsync.StateChangeEvent) {}

func (w *pageWriter) OnLoad(e vesselsync.LoadEvent) {
	if !e.Discarded {
		w.flush()
	}
}

func (w *pageWriter) OnToggle(e vesselsync.ToggleEvent) {
	if e.Err == nil {
		w.flush()
	}
}

func (w *pageWriter) OnHistory(vesselsync.HistoryEvent) {
	w.flush()
}
