package connections

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ConnectionResource references a mounted secret or config map. MountPath is
// the directory holding one file per key. Token, URL and Host are alternate
// mount locations some providers read from instead of MountPath.
type ConnectionResource struct {
	Name        string   `json:"name" yaml:"name"`
	MountPath   string   `json:"mount_path,omitempty" yaml:"mount_path,omitempty"`
	HostPath    string   `json:"host_path,omitempty" yaml:"host_path,omitempty"`
	Items       []string `json:"items,omitempty" yaml:"items,omitempty"`
	DefaultMode string   `json:"default_mode,omitempty" yaml:"default_mode,omitempty"`
	IsRequested *bool    `json:"is_requested,omitempty" yaml:"is_requested,omitempty"`
	Token       string   `json:"token,omitempty" yaml:"token,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Host        string   `json:"host,omitempty" yaml:"host,omitempty"`
}

// resourceDoc is the on-disk shape, accepting both snake_case and camelCase
type resourceDoc struct {
	Name           string   `json:"name" yaml:"name"`
	MountPath      string   `json:"mount_path" yaml:"mount_path"`
	MountPathAlt   string   `json:"mountPath" yaml:"mountPath"`
	HostPath       string   `json:"host_path" yaml:"host_path"`
	HostPathAlt    string   `json:"hostPath" yaml:"hostPath"`
	Items          []string `json:"items" yaml:"items"`
	DefaultMode    any      `json:"default_mode" yaml:"default_mode"`
	DefaultModeAlt any      `json:"defaultMode" yaml:"defaultMode"`
	IsRequested    *bool    `json:"is_requested" yaml:"is_requested"`
	IsRequestedAlt *bool    `json:"isRequested" yaml:"isRequested"`
	Token          string   `json:"token" yaml:"token"`
	URL            string   `json:"url" yaml:"url"`
	Host           string   `json:"host" yaml:"host"`
}

func (d *resourceDoc) resource() ConnectionResource {
	r := ConnectionResource{
		Name:        d.Name,
		MountPath:   firstNonEmpty(d.MountPath, d.MountPathAlt),
		HostPath:    firstNonEmpty(d.HostPath, d.HostPathAlt),
		Items:       d.Items,
		DefaultMode: firstNonEmpty(scalarString(d.DefaultMode), scalarString(d.DefaultModeAlt)),
		IsRequested: d.IsRequested,
		Token:       d.Token,
		URL:         d.URL,
		Host:        d.Host,
	}
	if r.IsRequested == nil {
		r.IsRequested = d.IsRequestedAlt
	}
	return r
}

// UnmarshalJSON accepts snake_case and camelCase field names
func (r *ConnectionResource) UnmarshalJSON(data []byte) error {
	var doc resourceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = doc.resource()
	return nil
}

// UnmarshalYAML accepts snake_case and camelCase field names
func (r *ConnectionResource) UnmarshalYAML(value *yaml.Node) error {
	var doc resourceDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*r = doc.resource()
	return nil
}

// Connection describes one external integration: where its secrets are
// mounted, an inline schema of values and an inline environment.
type Connection struct {
	Name        string              `json:"name" yaml:"name" validate:"required"`
	Kind        Kind                `json:"kind" yaml:"kind" validate:"required"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Secret      *ConnectionResource `json:"secret,omitempty" yaml:"secret,omitempty"`
	ConfigMap   *ConnectionResource `json:"config_map,omitempty" yaml:"config_map,omitempty"`
	Schema      map[string]any      `json:"schema,omitempty" yaml:"schema,omitempty"`
	Env         map[string]string   `json:"env,omitempty" yaml:"env,omitempty"`
}

type connectionDoc struct {
	Name         string              `json:"name" yaml:"name"`
	Kind         Kind                `json:"kind" yaml:"kind"`
	Description  string              `json:"description" yaml:"description"`
	Tags         []string            `json:"tags" yaml:"tags"`
	Secret       *ConnectionResource `json:"secret" yaml:"secret"`
	ConfigMap    *ConnectionResource `json:"config_map" yaml:"config_map"`
	ConfigMapAlt *ConnectionResource `json:"configMap" yaml:"configMap"`
	Schema       map[string]any      `json:"schema" yaml:"schema"`
	SchemaAlt    map[string]any      `json:"schema_" yaml:"schema_"`
	Env          map[string]any      `json:"env" yaml:"env"`
}

func (d *connectionDoc) connection() Connection {
	c := Connection{
		Name:        d.Name,
		Kind:        d.Kind,
		Description: d.Description,
		Tags:        d.Tags,
		Secret:      d.Secret,
		ConfigMap:   d.ConfigMap,
		Schema:      d.Schema,
	}
	if c.ConfigMap == nil {
		c.ConfigMap = d.ConfigMapAlt
	}
	if c.Schema == nil {
		c.Schema = d.SchemaAlt
	}
	if len(d.Env) > 0 {
		c.Env = make(map[string]string, len(d.Env))
		for k, v := range d.Env {
			c.Env[k] = scalarString(v)
		}
	}
	return c
}

// UnmarshalJSON accepts the field aliases catalog files use. Numbers in the
// schema and env keep their literal text.
func (c *Connection) UnmarshalJSON(data []byte) error {
	var doc connectionDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	*c = doc.connection()
	return nil
}

// UnmarshalYAML accepts the field aliases catalog files use
func (c *Connection) UnmarshalYAML(value *yaml.Node) error {
	var doc connectionDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*c = doc.connection()
	return nil
}

// SchemaAsMap flattens the inline schema into string values. Scalars are
// formatted, nested values are JSON-encoded and nulls are dropped.
func (c *Connection) SchemaAsMap() map[string]string {
	if c == nil || len(c.Schema) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Schema))
	for k, v := range c.Schema {
		if v == nil {
			continue
		}
		out[k] = scalarString(v)
	}
	return out
}

// SecretMountPath returns the secret mount path, or "" when there is none
func (c *Connection) SecretMountPath() string {
	if c == nil || c.Secret == nil {
		return ""
	}
	return c.Secret.MountPath
}

// ConfigMapMountPath returns the config map mount path, or "" when there is none
func (c *Connection) ConfigMapMountPath() string {
	if c == nil || c.ConfigMap == nil {
		return ""
	}
	return c.ConfigMap.MountPath
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		data, err := json.Marshal(normalizeYAML(v))
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// normalizeYAML converts map[any]any values, which JSON cannot encode, into
// map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalizeYAML(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = normalizeYAML(val)
		}
		return s
	default:
		return v
	}
}
