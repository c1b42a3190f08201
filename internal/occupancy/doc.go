// Package occupancy provides the sources the controller asks for the current
// person count.
//
// Every backend implements Source: a synchronous Count call plus Close. The
// kind configured in config.Source picks the backend: a SQL query (lib/pq),
// a Redis key, an HTTP JSON endpoint (resty), a gRPC unary method, a NATS
// request/reply subject, the latest MQTT message on a topic, or a fixed list
// of counts for dry runs.
package occupancy
