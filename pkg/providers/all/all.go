// Package all registers every provider adapter with the global registry.
package all

import (
	_ "github.com/ajitpratap0/vents/pkg/providers/anthropic"
	_ "github.com/ajitpratap0/vents/pkg/providers/aws"
	_ "github.com/ajitpratap0/vents/pkg/providers/discord"
	_ "github.com/ajitpratap0/vents/pkg/providers/gcp"
	_ "github.com/ajitpratap0/vents/pkg/providers/gemini"
	_ "github.com/ajitpratap0/vents/pkg/providers/github"
	_ "github.com/ajitpratap0/vents/pkg/providers/kafka"
	_ "github.com/ajitpratap0/vents/pkg/providers/mongodb"
	_ "github.com/ajitpratap0/vents/pkg/providers/mysql"
	_ "github.com/ajitpratap0/vents/pkg/providers/openai"
	_ "github.com/ajitpratap0/vents/pkg/providers/postgres"
	_ "github.com/ajitpratap0/vents/pkg/providers/reddit"
	_ "github.com/ajitpratap0/vents/pkg/providers/redis"
	_ "github.com/ajitpratap0/vents/pkg/providers/slack"
	_ "github.com/ajitpratap0/vents/pkg/providers/webhook"
)
