// Package vents resolves credentials and connection settings for services
// that talk to third-party systems, and turns named catalog connections into
// configured clients.
//
// A value is looked up under several spellings of its key and across several
// sources, stopping at the first non-empty hit:
//
//  1. Mounted directories holding one file per key (Kubernetes secrets and
//     config maps)
//  2. A connection's inline schema
//  3. A connection's inline environment
//  4. The process environment, as KEY and then VENTS_KEY
//
// # Quick Start
//
// Resolve a single value:
//
//	import "github.com/ajitpratap0/vents/pkg/config"
//
//	cfg, err := config.NewAppConfig()
//	if err != nil {
//		return err
//	}
//	token := cfg.ReadKeys([]string{"SLACK_TOKEN"},
//		config.WithContextPaths("/var/run/secrets/slack")).String()
//
// Load a provider from the connections catalog named by
// VENTS_CONNECTIONS_CATALOG:
//
//	import (
//		"github.com/ajitpratap0/vents/pkg/config"
//		"github.com/ajitpratap0/vents/pkg/providers/postgres"
//	)
//
//	svc, err := postgres.LoadFromCatalog(config.Default(), "events-db")
//	if err != nil {
//		return err
//	}
//	pool, err := svc.Session(ctx)
//	defer svc.Close()
//
// # Key Packages
//
//	pkg/config       - Key resolution, AppConfig and CLI settings
//	pkg/connections  - Connection model and catalog files
//	pkg/providers    - Provider registry, lazy sessions and the adapters
//	pkg/clients      - HTTP client shared by the webhook and API adapters
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus counters for resolutions and sessions
//	pkg/observability - OpenTelemetry tracing of session builds
//
// # Command Line
//
// The vents command exposes the resolver to shell scripts and init
// containers:
//
//	vents resolve POSTGRES_DSN --connection events-db
//	vents catalog list --catalog connections.yaml
//	eval "$(vents env --connection events-db --reveal)"
package vents
