// Package commands implements the binarytree command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Sumatoshi-tech/binarytree/pkg/config"
	"github.com/Sumatoshi-tech/binarytree/pkg/observability"
	"github.com/Sumatoshi-tech/binarytree/pkg/version"
)

const (
	envOTLPHeaders = "OTEL_EXPORTER_OTLP_HEADERS"
	rootLong       = `binarytree builds, inspects and exercises AVL trees.

Commands:
  build     Build a tree and print it
  check     Verify a tree's invariants and a traversal
  script    Run a JSON operation script
  render    Draw a tree as an HTML chart
  lua       Run a Lua script with the binarytree module
  bench     Run a random insert/remove workload`
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg       *config.Config
	logger    *slog.Logger
	providers observability.Providers
}

// Run executes the command line in args and flushes telemetry afterwards,
// whether or not the command failed.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if a.providers.Shutdown != nil {
		shutdownErr := a.providers.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			a.logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}

	return err
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "binarytree",
		Short:             "AVL tree toolkit",
		Long:              rootLong,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: binarytree.yaml in ., ./config or ~/.config/binarytree)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")

	root.AddCommand(
		a.buildCommand(),
		a.checkCommand(),
		a.scriptCommand(),
		a.renderCommand(),
		a.luaCommand(),
		a.benchCommand(),
		versionCommand(),
	)

	return root
}

// setup loads configuration and initialises logging and telemetry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = modeOf(cmd)
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON
	obsCfg.DebugAttributes = a.verbose

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.providers = providers
	a.logger = providers.Logger

	a.logger.Debug("configuration loaded", "command", cmd.Name(), "max_depth", cfg.Tree.MaxDepth)

	return nil
}

func modeOf(cmd *cobra.Command) observability.AppMode {
	switch cmd.Name() {
	case "lua":
		return observability.ModeLua
	case "bench":
		return observability.ModeBench
	default:
		return observability.ModeCLI
	}
}

// colorize reports whether output to w should carry ANSI colours: always
// when configured, otherwise only on a terminal.
func (a *app) colorize(w io.Writer) bool {
	if a.cfg.Output.Color {
		return true
	}

	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
