package providers

import (
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/connections"
)

// Context is the set of optional sources a connection contributes to a
// resolution.
type Context struct {
	Paths  []string
	Schema map[string]string
	Env    map[string]string
}

// ReadOptions converts the context to ReadKeys options
func (c Context) ReadOptions() []config.ReadOption {
	opts := make([]config.ReadOption, 0, 3)
	if len(c.Paths) > 0 {
		opts = append(opts, config.WithContextPaths(c.Paths...))
	}
	if len(c.Schema) > 0 {
		opts = append(opts, config.WithSchema(c.Schema))
	}
	if len(c.Env) > 0 {
		opts = append(opts, config.WithEnv(c.Env))
	}
	return opts
}

// Read resolves keys against the context through cfg
func (c Context) Read(cfg *config.AppConfig, keys ...string) config.Value {
	return cfg.ReadKeys(keys, c.ReadOptions()...)
}

// ContextFromConnection uses the secret mount path, then the config map mount
// path. A nil connection yields an empty context.
func ContextFromConnection(conn *connections.Connection) Context {
	return withInline(conn, conn.SecretMountPath(), conn.ConfigMapMountPath())
}

// ContextFromSecretMount uses only the secret mount path
func ContextFromSecretMount(conn *connections.Connection) Context {
	return withInline(conn, conn.SecretMountPath())
}

// ContextFromSecretURL uses the secret's url mount, as webhook providers do
func ContextFromSecretURL(conn *connections.Connection) Context {
	var url string
	if conn != nil && conn.Secret != nil {
		url = conn.Secret.URL
	}
	return withInline(conn, url)
}

// ContextFromSecretToken uses the secret's token mount, then the config map's
// host mount.
func ContextFromSecretToken(conn *connections.Connection) Context {
	var token, host string
	if conn != nil && conn.Secret != nil {
		token = conn.Secret.Token
	}
	if conn != nil && conn.ConfigMap != nil {
		host = conn.ConfigMap.Host
	}
	return withInline(conn, token, host)
}

func withInline(conn *connections.Connection, paths ...string) Context {
	var ctx Context
	for _, p := range paths {
		if p != "" {
			ctx.Paths = append(ctx.Paths, p)
		}
	}
	if conn == nil {
		return ctx
	}
	ctx.Schema = conn.SchemaAsMap()
	if len(conn.Env) > 0 {
		ctx.Env = conn.Env
	}
	return ctx
}
