package occupancy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// Source returns the current occupancy count.
type Source interface {
	// Count fetches the current count. It blocks until the backend answers or ctx is done.
	Count(ctx context.Context) (int, error)
	// Close releases connections held by the source.
	Close() error
}

var (
	// ErrNegativeCount is returned when a backend reports a count below zero.
	ErrNegativeCount = errors.New("negative occupancy count")
	// ErrNoReading is returned when the backend has no count yet.
	ErrNoReading = errors.New("no occupancy reading available")
	// ErrMalformedCount is returned when a reply cannot be read as a count.
	ErrMalformedCount = errors.New("malformed occupancy count")
	// ErrUnknownKind is returned for an unsupported source kind.
	ErrUnknownKind = errors.New("unknown source kind")
)

// New opens the source selected by cfg.Kind.
func New(ctx context.Context, cfg *config.Source) (Source, error) {
	switch cfg.Kind {
	case config.SourcePostgres:
		return opened[*Postgres](OpenPostgres(ctx, &cfg.Postgres))
	case config.SourceRedis:
		return opened[*Redis](OpenRedis(ctx, &cfg.Redis))
	case config.SourceHTTP:
		return NewHTTP(&cfg.HTTP, cfg.Timeout), nil
	case config.SourceGRPC:
		return opened[*GRPC](DialGRPC(&cfg.GRPC))
	case config.SourceNATS:
		return opened[*NATS](ConnectNATS(&cfg.NATS, cfg.Timeout))
	case config.SourceMQTT:
		return opened[*MQTT](ConnectMQTT(&cfg.MQTT))
	case config.SourceStatic:
		return NewStatic(cfg.Static.Counts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// opened converts a constructor result into a Source without leaking a typed nil.
func opened[T Source](source T, err error) (Source, error) {
	if err != nil {
		return nil, err
	}

	return source, nil
}

// checkCount rejects negative and oversized values.
func checkCount(value int64) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, value)
	}

	if int64(int(value)) != value {
		return 0, fmt.Errorf("%w: %d overflows int", ErrMalformedCount, value)
	}

	return int(value), nil
}

// parsePayload reads a count from a plain decimal body or from a JSON object field.
func parsePayload(payload []byte, field string) (int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: empty payload", ErrMalformedCount)
	}

	if value, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		return checkCount(value)
	}

	return parseJSONField(trimmed, field)
}

// parseJSONField reads an integer field from a JSON object.
func parseJSONField(body []byte, field string) (int, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(body, &document); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedCount, err)
	}

	raw, ok := document[field]
	if !ok {
		return 0, fmt.Errorf("%w: field %q is missing", ErrMalformedCount, field)
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0, fmt.Errorf("%w: field %q: %w", ErrMalformedCount, field, err)
	}

	value, err := number.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: field %q: %w", ErrMalformedCount, field, err)
	}

	return checkCount(value)
}
