package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/logger"
	"github.com/ajitpratap0/vents/pkg/observability"

	// Register every provider adapter
	_ "github.com/ajitpratap0/vents/pkg/providers/all"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the state shared by every command
type app struct {
	v            *viper.Viper
	settingsFile string
	trace        bool

	settings *config.Settings
	log      *zap.Logger
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "vents",
		Short: "Vents - resolve credentials and connection settings",
		Long: `Vents resolves configuration values from mounted secrets, connection schemas,
inline environments and the process environment, and turns catalog connections
into configured clients for third-party services.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("env-prefix", config.DefaultEnvPrefix, "Prefix of the fallback environment variables")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, console)")
	flags.String("catalog", "", "Connections catalog file, overrides {PREFIX}_CONNECTIONS_CATALOG")
	flags.StringVar(&a.settingsFile, "settings", "", "Optional settings file (YAML, JSON or TOML)")
	flags.BoolVar(&a.trace, "trace", false, "Print session traces to stderr")

	_ = a.v.BindPFlag("env_prefix", flags.Lookup("env-prefix"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("connections_catalog", flags.Lookup("catalog"))

	root.AddCommand(
		newVersionCmd(),
		newResolveCmd(a),
		newCatalogCmd(a),
		newEnvCmd(a),
		newProvidersCmd(),
	)
	return root
}

// setup loads settings, then installs the logger and, with --trace, the
// tracer provider.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(a.v, a.settingsFile)
	if err != nil {
		return err
	}
	a.settings = settings

	lc := settings.LoggerConfig()
	lc.OutputPaths = []string{"stderr"}
	l, err := logger.New(lc)
	if err != nil {
		return err
	}
	logger.Set(l)
	a.log = l

	tc := observability.DefaultTracingConfig()
	tc.ServiceVersion = version
	if a.trace {
		tc.ExporterType = observability.ExporterStdout
		tc.Writer = cmd.ErrOrStderr()
	}
	shutdown, err := observability.InitTracing(cmd.Context(), tc)
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.shutdown(ctx); err != nil {
			return err
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}

// appConfig builds the AppConfig the settings describe. Extra options are
// applied last.
func (a *app) appConfig(extra ...config.Option) (*config.AppConfig, error) {
	opts := append(a.settings.Options(), config.WithLogger(a.log))
	opts = append(opts, extra...)
	return config.NewAppConfig(opts...)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
