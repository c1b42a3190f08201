package config

import "time"

// Source kinds understood by the occupancy package.
const (
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
	SourceHTTP     = "http"
	SourceGRPC     = "grpc"
	SourceNATS     = "nats"
	SourceMQTT     = "mqtt"
	SourceStatic   = "static"
)

const (
	// DefaultCountField is the JSON field holding the count in HTTP and NATS replies.
	DefaultCountField = "person_count"

	// DefaultGRPCMethod is the unary method queried by the gRPC source.
	DefaultGRPCMethod = "/occupancy.v1.OccupancyService/GetCount"

	// DefaultMQTTQoS is the default subscription quality of service.
	DefaultMQTTQoS = 1
)

// Source selects the occupancy backend. Only the section matching Kind is used.
type Source struct {
	// Kind is one of the Source* constants.
	Kind string `yaml:"kind"`
	// Timeout bounds every fetch; zero leaves fetches unbounded.
	Timeout time.Duration `yaml:"timeout"`

	Postgres PostgresSource `yaml:"postgres,omitempty"`
	Redis    RedisSource    `yaml:"redis,omitempty"`
	HTTP     HTTPSource     `yaml:"http,omitempty"`
	GRPC     GRPCSource     `yaml:"grpc,omitempty"`
	NATS     NATSSource     `yaml:"nats,omitempty"`
	MQTT     MQTTSource     `yaml:"mqtt,omitempty"`
	Static   StaticSource   `yaml:"static,omitempty"`
}

// PostgresSource runs a query whose first column of the first row is the count.
type PostgresSource struct {
	DSN   string `yaml:"dsn"`
	Query string `yaml:"query"`
}

// RedisSource reads the count stored under a key.
type RedisSource struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// HTTPSource fetches a JSON document and reads the count from Field.
type HTTPSource struct {
	URL   string `yaml:"url"`
	Field string `yaml:"field"`
}

// GRPCSource calls a unary method answering google.protobuf.Int64Value.
type GRPCSource struct {
	Address string `yaml:"address"`
	Method  string `yaml:"method"`
}

// NATSSource sends a request on Subject and reads the count from the reply.
type NATSSource struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MQTTSource keeps the latest count published on Topic.
type MQTTSource struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// StaticSource cycles through fixed counts.
type StaticSource struct {
	Counts []int `yaml:"counts"`
}
