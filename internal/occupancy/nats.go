package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// natsDrainTimeout bounds Close; the client force-closes the connection when it expires.
const natsDrainTimeout = 5 * time.Second

// NATS asks for the count with a request/reply round trip.
type NATS struct {
	// conn is the server connection.
	conn *nats.Conn
	// subject receives the requests.
	subject string
	// closed is closed once the connection is fully closed.
	closed chan struct{}
}

// ConnectNATS connects to the server. A positive timeout bounds the initial connect.
func ConnectNATS(cfg *config.NATSSource, timeout time.Duration) (*NATS, error) {
	closed := make(chan struct{})

	opts := []nats.Option{
		nats.Name(config.DefaultConsumer),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(natsDrainTimeout),
		nats.ClosedHandler(func(*nats.Conn) {
			close(closed)
		}),
	}

	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}

	return &NATS{
		conn:    conn,
		subject: cfg.Subject,
		closed:  closed,
	}, nil
}

// Count sends an empty request and parses the reply.
func (n *NATS) Count(ctx context.Context) (int, error) {
	msg, err := n.conn.RequestWithContext(ctx, n.subject, nil)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", n.subject, err)
	}

	return parsePayload(msg.Data, config.DefaultCountField)
}

// Close drains the connection and waits until it is closed. Draining is bounded
// by natsDrainTimeout, after which the client closes the connection itself.
func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}

	if err := n.conn.Drain(); err != nil {
		n.conn.Close()

		return fmt.Errorf("drain nats connection: %w", err)
	}

	select {
	case <-n.closed:
		return nil
	case <-time.After(natsDrainTimeout + time.Second):
		n.conn.Close()

		return fmt.Errorf("drain nats connection: %w", nats.ErrDrainTimeout)
	}
}
