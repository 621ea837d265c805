package connections

import "sort"

// Kind tags the provider family a connection belongs to
type Kind string

// Known connection kinds. Catalogs may carry other kinds; those are kept
// as-is and simply have no registered adapter.
const (
	KindHTTP           Kind = "http"
	KindWebhook        Kind = "webhook"
	KindSlack          Kind = "slack"
	KindSlackWebhook   Kind = "slack_webhook"
	KindDiscord        Kind = "discord"
	KindDiscordWebhook Kind = "discord_webhook"
	KindGitHub         Kind = "github"
	KindOpenAI         Kind = "openai"
	KindAnthropic      Kind = "anthropic"
	KindGemini         Kind = "gemini"
	KindReddit         Kind = "reddit"
	KindRedditRSS      Kind = "reddit_rss"
	KindAWS            Kind = "aws"
	KindS3             Kind = "s3"
	KindGCP            Kind = "gcp"
	KindGCS            Kind = "gcs"
	KindBigQuery       Kind = "bigquery"
	KindPostgres       Kind = "postgres"
	KindMySQL          Kind = "mysql"
	KindMongoDB        Kind = "mongodb"
	KindRedis          Kind = "redis"
	KindKafka          Kind = "kafka"
	KindEmail          Kind = "email"
	KindTeams          Kind = "teams"
)

var knownKinds = map[Kind]struct{}{
	KindHTTP: {}, KindWebhook: {}, KindSlack: {}, KindSlackWebhook: {},
	KindDiscord: {}, KindDiscordWebhook: {}, KindGitHub: {}, KindOpenAI: {},
	KindAnthropic: {}, KindGemini: {}, KindReddit: {}, KindRedditRSS: {},
	KindAWS: {}, KindS3: {}, KindGCP: {}, KindGCS: {}, KindBigQuery: {},
	KindPostgres: {}, KindMySQL: {}, KindMongoDB: {}, KindRedis: {},
	KindKafka: {}, KindEmail: {}, KindTeams: {},
}

// String returns the kind as a string
func (k Kind) String() string {
	return string(k)
}

// IsKnown reports whether k is one of the kinds vents ships constants for
func (k Kind) IsKnown() bool {
	_, ok := knownKinds[k]
	return ok
}

// KnownKinds returns the kinds vents ships constants for, sorted
func KnownKinds() []Kind {
	kinds := make([]Kind, 0, len(knownKinds))
	for k := range knownKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
