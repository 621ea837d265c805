package webhook

import (
	"strings"
	"time"

	"github.com/ajitpratap0/vents/pkg/clients"
	"github.com/ajitpratap0/vents/pkg/config"
	"github.com/ajitpratap0/vents/pkg/errors"
)

// SessionAttrs tunes the HTTP session of a webhook. It is read as a JSON
// object, for example {"headers": {"X-Team": "infra"}, "timeout": 10}.
type SessionAttrs struct {
	Headers   map[string]string `json:"headers,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	// Timeout is in seconds
	Timeout float64 `json:"timeout,omitempty"`
	// Verify set to false disables TLS certificate verification
	Verify *bool `json:"verify,omitempty"`
}

// ParseSessionAttrs decodes a resolved session attributes value. A missing
// value yields nil.
func ParseSessionAttrs(v config.Value) (*SessionAttrs, error) {
	if !v.Found() {
		return nil, nil
	}
	var attrs SessionAttrs
	if err := v.JSON(&attrs); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid session attributes")
	}
	return &attrs, nil
}

// Apply copies the attributes onto an HTTP client config
func (a *SessionAttrs) Apply(cfg *clients.HTTPConfig) {
	if a == nil {
		return
	}
	for k, v := range a.Headers {
		cfg.Headers[k] = v
	}
	if a.UserAgent != "" {
		cfg.UserAgent = a.UserAgent
	}
	if a.Timeout > 0 {
		cfg.RequestTimeout = time.Duration(a.Timeout * float64(time.Second))
	}
	if a.Verify != nil && !*a.Verify {
		cfg.InsecureSkipVerify = true
	}
}

func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
