// Package config resolves secrets and settings for vents integrations.
//
// An AppConfig looks a value up under several spellings of its key and across
// several sources that may or may not exist, stopping at the first non-empty
// hit.
//
// # Key Spellings
//
// NormalizeKeys expands each key into lowercase, uppercase and a collapsed
// form without underscores:
//
//	NormalizeKeys([]string{"Api_Key"}) // ["api_key", "API_KEY", "apikey"]
//
// # Source Order
//
// ReadKeys consults, in order:
//
//  1. Context paths: mount directories holding one file per key
//  2. Schema: an inline key/value mapping
//  3. Env: an inline environment
//  4. The process environment, always tried last
//
// The first three are consulted only when supplied. Environment lookups try
// the bare key and then {EnvPrefix}_{key}, so with the default prefix
// VENTS_OPENAI_API_KEY is a fallback for OPENAI_API_KEY.
//
//	cfg, _ := config.NewAppConfig()
//	v := cfg.ReadKeys([]string{"OPENAI_API_KEY"},
//		config.WithContextPaths("/etc/secrets/openai"),
//		config.WithSchema(conn.SchemaAsMap()),
//		config.WithEnv(conn.Env),
//	)
//	if v.Found() {
//		client.SetToken(v.String())
//	}
//
// # Values
//
// "true" and "false" in any case resolve to booleans; every other non-empty
// value is returned as read. Empty values are treated as missing and fall
// through to the next spelling or source.
//
// # Connections Catalog
//
// At construction the catalog file named by {EnvPrefix}_CONNECTIONS_CATALOG is
// loaded if the variable is set. The catalog can be replaced at any time with
// SetConnectionsCatalog, SetCatalog or ReloadConnectionsCatalog; readers never
// observe a partially built catalog.
package config
