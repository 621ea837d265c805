// Package connections describes the external integrations vents resolves
// credentials for, and the catalog file that lists them.
package connections

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/vents/pkg/errors"
)

// Catalog file types accepted by Read
const (
	ConfigTypeJSON = ".json"
	ConfigTypeYAML = ".yaml"
	ConfigTypeYML  = ".yml"
)

var validate = validator.New()

// ConnectionCatalog is an immutable set of connections. Duplicate names
// resolve to the last definition, which also takes the position of the first.
type ConnectionCatalog struct {
	connections []*Connection
	byName      map[string]*Connection
}

type catalogDoc struct {
	Connections []*Connection `json:"connections" yaml:"connections"`
}

// NewConnectionCatalog builds a catalog from conns. Nil entries are skipped.
func NewConnectionCatalog(conns []*Connection) *ConnectionCatalog {
	c := &ConnectionCatalog{
		connections: make([]*Connection, 0, len(conns)),
		byName:      make(map[string]*Connection, len(conns)),
	}
	position := make(map[string]int, len(conns))
	for _, conn := range conns {
		if conn == nil {
			continue
		}
		if i, ok := position[conn.Name]; ok {
			c.connections[i] = conn
		} else {
			position[conn.Name] = len(c.connections)
			c.connections = append(c.connections, conn)
		}
		c.byName[conn.Name] = conn
	}
	return c
}

// Connections returns the connections in catalog order
func (c *ConnectionCatalog) Connections() []*Connection {
	if c == nil {
		return nil
	}
	out := make([]*Connection, len(c.connections))
	copy(out, c.connections)
	return out
}

// ConnectionsByNames returns a name-keyed view of the catalog
func (c *ConnectionCatalog) ConnectionsByNames() map[string]*Connection {
	if c == nil {
		return map[string]*Connection{}
	}
	out := make(map[string]*Connection, len(c.byName))
	for k, v := range c.byName {
		out[k] = v
	}
	return out
}

// Get returns the connection with the given name, or nil
func (c *ConnectionCatalog) Get(name string) *Connection {
	if c == nil || name == "" {
		return nil
	}
	return c.byName[name]
}

// Len returns the number of distinct connections
func (c *ConnectionCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.connections)
}

// Read loads a catalog file. configType is ".json", ".yaml" or ".yml"; when
// empty it is inferred from the file extension, falling back to JSON.
func Read(path, configType string) (*ConnectionCatalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: catalog path is operator supplied
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigParse, "failed to read connections catalog").
			WithDetail("path", path)
	}

	if configType == "" {
		configType = filepath.Ext(path)
	}

	catalog, err := Parse(data, configType)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithDetail("path", path)
		}
		return nil, err
	}
	return catalog, nil
}

// Parse decodes and validates catalog content of the given type
func Parse(data []byte, configType string) (*ConnectionCatalog, error) {
	var doc catalogDoc
	switch strings.ToLower(configType) {
	case ConfigTypeYAML, ConfigTypeYML, "yaml", "yml":
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfigParse, "invalid YAML connections catalog")
			}
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfigParse, "invalid JSON connections catalog")
		}
	}

	if err := Validate(doc.Connections); err != nil {
		return nil, err
	}
	return NewConnectionCatalog(doc.Connections), nil
}

// Validate checks that every connection carries a name and a kind
func Validate(conns []*Connection) error {
	for i, conn := range conns {
		if conn == nil {
			return errors.Newf(errors.ErrorTypeConfigParse, "connection %d is empty", i)
		}
		if err := validate.Struct(conn); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfigParse, "invalid connection").
				WithDetail("index", i).
				WithDetail("name", conn.Name)
		}
	}
	return nil
}

// Marshal encodes the catalog as JSON in the on-disk shape
func (c *ConnectionCatalog) Marshal() ([]byte, error) {
	return json.Marshal(catalogDoc{Connections: c.Connections()})
}
