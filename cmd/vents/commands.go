package main

import (
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/providers"
)

const masked = "********"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printf(out, "Vents v%s\n", version)
			printf(out, "Go version: %s\n", runtime.Version())
			printf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		connName string
		prefix   string
		paths    []string
	)

	cmd := &cobra.Command{
		Use:   "resolve KEY...",
		Short: "Resolve the first of KEY... that has a value",
		Long: `Resolve looks each key up in the given mount paths, then the connection's
schema and inline environment, then the process environment, and prints the
first value found. It exits non-zero when no source has a value.

Example:
  vents resolve POSTGRES_DSN --connection events-db
  vents resolve SLACK_TOKEN --path /var/run/secrets/slack`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []config.Option
			if cmd.Flags().Changed("prefix") {
				extra = append(extra, config.WithEnvPrefix(prefix))
			}
			cfg, err := a.appConfig(extra...)
			if err != nil {
				return err
			}

			pctx := providers.Context{Paths: paths}
			if connName != "" {
				conn := cfg.GetConnectionFor(connName)
				if conn == nil {
					return errors.Newf(errors.ErrorTypeNotFound, "connection %q not found in catalog", connName)
				}
				connCtx := providers.ContextFromConnection(conn)
				pctx.Paths = append(pctx.Paths, connCtx.Paths...)
				pctx.Schema = connCtx.Schema
				pctx.Env = connCtx.Env
			}

			value, err := cfg.RequireKeys(args, pctx.ReadOptions()...)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", value.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&connName, "connection", "c", "", "Catalog connection whose mounts, schema and env are searched")
	cmd.Flags().StringArrayVarP(&paths, "path", "p", nil, "Directory holding one file per key (repeatable)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Environment prefix for this lookup")
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect connections catalogs",
	}

	var output string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the connections in the active catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.appConfig(config.WithRequireCatalog())
			if err != nil {
				return err
			}
			catalog := cfg.Catalog()
			if catalog == nil {
				return errors.Newf(errors.ErrorTypeNotFound,
					"no connections catalog configured, set --catalog or %s", cfg.ConnectionsCatalogEnvName())
			}

			switch output {
			case "json":
				data, err := catalog.Marshal()
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode catalog")
				}
				printf(cmd.OutOrStdout(), "%s\n", data)
			case "table":
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				printf(w, "NAME\tKIND\tMOUNTS\tDESCRIPTION\n")
				for _, conn := range catalog.Connections() {
					printf(w, "%s\t%s\t%s\t%s\n", conn.Name, conn.Kind, mounts(conn), conn.Description)
				}
				return w.Flush()
			default:
				return errors.Newf(errors.ErrorTypeValidation, "unknown output format %q", output)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a catalog file parses and every connection is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := connections.Read(args[0], "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, conn := range catalog.Connections() {
				if !providers.GetRegistry().Has(conn.Kind) {
					printf(out, "warning: connection %q has kind %q with no registered provider\n", conn.Name, conn.Kind)
				}
			}
			printf(out, "%s: %d connections OK\n", args[0], catalog.Len())
			return nil
		},
	}

	cmd.AddCommand(listCmd, validateCmd)
	return cmd
}

func mounts(conn *connections.Connection) string {
	var parts []string
	if p := conn.SecretMountPath(); p != "" {
		parts = append(parts, "secret:"+p)
	}
	if p := conn.ConfigMapMountPath(); p != "" {
		parts = append(parts, "config_map:"+p)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func newEnvCmd(a *app) *cobra.Command {
	var (
		connName string
		reveal   bool
	)

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the variables a connection's provider resolves to",
		Long: `Env loads the provider registered for the connection's kind and prints its
resolved fields as shell export lines. Values are masked unless --reveal is set.

Example:
  eval "$(vents env --connection events-db --reveal)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.appConfig()
			if err != nil {
				return err
			}
			svc, err := providers.Load(cfg, connName)
			if err != nil {
				return err
			}
			if closer, ok := svc.(providers.Closer); ok {
				defer func() { _ = closer.Close() }()
			}

			vars := svc.EnvVars()
			keys := make([]string, 0, len(vars))
			for k := range vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			for _, k := range keys {
				v := masked
				if reveal {
					v = shellQuote(vars[k])
				}
				printf(out, "export %s=%s\n", k, v)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&connName, "connection", "c", "", "Catalog connection to load (required)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print values instead of masking them")
	_ = cmd.MarkFlagRequired("connection")
	return cmd
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect registered providers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered provider kinds and the keys they resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(w, "KIND\tDESCRIPTION\tKEYS\n")
			for _, kind := range providers.Kinds() {
				desc, keys := "", "-"
				if info, ok := providers.GetRegistry().Info(kind); ok {
					desc = info.Description
					keys = strings.Join(info.Keys, ",")
				}
				printf(w, "%s\t%s\t%s\n", kind, desc, keys)
			}
			return w.Flush()
		},
	})
	return cmd
}
