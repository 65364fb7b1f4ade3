package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/loykin/svcwatch/internal/config"
	"github.com/loykin/svcwatch/internal/logger"
	"github.com/loykin/svcwatch/internal/metrics"
	"github.com/loykin/svcwatch/internal/service"
	"github.com/loykin/svcwatch/internal/watchdog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const banner = "============================================================"

type command struct {
	newController func() service.Controller
	stdout        io.Writer
	stderr        io.Writer
}

// load finds and reads the config, applying flag overrides. Errors are
// logged to the console, and to --log-file when given, before being returned.
func (c *command) load(g GlobalFlags) (*config.Config, error) {
	var cfg *config.Config
	path, err := config.Find(g.ConfigPath)
	if err == nil {
		cfg, err = config.Load(path)
	}
	if err == nil {
		if g.LogLevel != "" {
			cfg.Log.Level = g.LogLevel
		}
		if g.LogFile != "" {
			cfg.Log.File = g.LogFile
		}
		err = cfg.Log.Validate()
	}
	if err != nil {
		c.bootError(g, err)
		return nil, reported(err)
	}
	return cfg, nil
}

// bootError logs err before a config-driven logger exists.
func (c *command) bootError(g GlobalFlags, err error) {
	boot, closer := logger.Config{
		Slog: logger.SlogConfig{Level: logger.LevelInfo, TimeStamps: true},
		File: logger.FileConfig{Path: g.LogFile},
	}.NewSlogger(c.stderr)
	boot.Error(err.Error())
	_ = closer.Close()
}

// Run performs one check-and-repair pass.
func (c *command) Run(g GlobalFlags, f RunFlags) error {
	if f.PushTimeout <= 0 {
		return fmt.Errorf("invalid --push-timeout %s: must be positive", f.PushTimeout)
	}
	cfg, err := c.load(g)
	if err != nil {
		return err
	}
	if f.MetricsTextfile != "" {
		cfg.Metrics.Textfile = f.MetricsTextfile
	}
	if f.PushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = f.PushgatewayURL
	}

	log, closer := cfg.Log.Logger().NewSlogger(c.stderr)
	defer func() { _ = closer.Close() }()

	log.Info(banner)
	log.Info("starting service watchdog", hostAttrs()...)
	log.Info("script version", slog.String("version", buildVersion()))
	log.Info("config file version", slog.String("version", cfg.Version), slog.String("path", cfg.Path))
	log.Info(banner)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		log.Error("failed to register metrics", slog.Any("error", err))
		return reported(err)
	}

	runner := watchdog.NewRunner(c.newController(), log, rec)
	pass, runErr := runner.Run(watchdog.Request{
		Names:    cfg.Services.Names,
		Prefixes: cfg.Services.Prefixes,
	})

	export := metrics.ExportConfig{
		Textfile:       cfg.Metrics.Textfile,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		Job:            cfg.Metrics.Job,
	}
	if export.PushgatewayURL != "" {
		export.Grouping = map[string]string{"instance": hostname()}
	}
	if export.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), f.PushTimeout)
		if err := metrics.Export(ctx, reg, export); err != nil {
			log.Warn("failed to export metrics", slog.Any("error", err))
		}
		cancel()
	}

	if runErr != nil {
		return reported(runErr)
	}
	if !pass.Healthy {
		for _, o := range pass.Failed() {
			log.Error("service unhealthy",
				slog.String("service", o.Service),
				slog.String("outcome", o.Kind.String()),
				slog.String("status", o.Status.String()))
		}
		return reported(watchdog.ErrUnhealthy)
	}

	log.Info(banner)
	log.Info("service watchdog completed successfully")
	log.Info(banner)
	return nil
}

type targetsOutput struct {
	Targets  []string        `json:"targets"`
	Prefixes []string        `json:"prefixes,omitempty"`
	Matched  []service.Entry `json:"matched,omitempty"`
}

// Targets resolves and prints the services a pass would check.
func (c *command) Targets(g GlobalFlags, f TargetsFlags) error {
	cfg, err := c.load(g)
	if err != nil {
		return err
	}
	log, closer := cfg.Log.Logger().NewSlogger(c.stderr)
	defer func() { _ = closer.Close() }()

	res, err := watchdog.NewRunner(c.newController(), log, nil).Resolve(watchdog.Request{
		Names:    cfg.Services.Names,
		Prefixes: cfg.Services.Prefixes,
	})
	if err != nil {
		return reported(err)
	}
	if f.JSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(targetsOutput{Targets: res.Target, Prefixes: res.Prefixes, Matched: res.Matched})
	}
	_, err = fmt.Fprintln(c.stdout, strings.Join(res.Target, "\n"))
	return err
}

func buildRoot(c command) *cobra.Command {
	globalFlags := &GlobalFlags{}
	runFlags := &RunFlags{}
	targetsFlags := &TargetsFlags{}

	root := createRootCommand(globalFlags)
	run := createRunCommand(c, globalFlags, runFlags)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(
		run,
		createTargetsCommand(c, globalFlags, targetsFlags),
		createVersionCommand(c),
	)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	return root
}

// createRootCommand creates the root command with persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "svcwatch",
		Short: "Start stopped system services",
		Long: `svcwatch checks a configured set of services and starts those found stopped.
Each invocation performs a single pass and exits; schedule it with Task Scheduler or cron.

Exit status is 0 when every service is running or was started, 1 otherwise.

Examples:
  svcwatch --config=C:\svcwatch\svcwatch.toml
  svcwatch targets --json
  svcwatch run --metrics-textfile=C:\metrics\svcwatch.prom`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (default: svcwatch.toml next to the executable or in the working directory)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "override log file path")
	return root
}

// createRunCommand creates the run subcommand
func createRunCommand(c command, g *GlobalFlags, f *RunFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check services and start the stopped ones (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(*g, *f)
		},
	}
	cmd.Flags().StringVar(&f.MetricsTextfile, "metrics-textfile", "", "write pass metrics to this Prometheus textfile")
	cmd.Flags().StringVar(&f.PushgatewayURL, "pushgateway-url", "", "push pass metrics to this Pushgateway")
	cmd.Flags().DurationVar(&f.PushTimeout, "push-timeout", 10*time.Second, "metrics push timeout")
	return cmd
}

// createTargetsCommand creates the targets subcommand
func createTargetsCommand(c command, g *GlobalFlags, f *TargetsFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the services a pass would check",
		Long: `Resolve services_to_monitor and service_prefixes without querying or starting anything.

Examples:
  svcwatch targets
  svcwatch targets --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Targets(*g, *f)
		},
	}
	cmd.Flags().BoolVar(&f.JSON, "json", false, "print targets and prefix matches as JSON")
	return cmd
}

// createVersionCommand creates the version subcommand
func createVersionCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(c.stdout, "svcwatch %s\n", buildVersion())
			return err
		},
	}
}
