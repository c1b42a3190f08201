package occupancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// mqttQuiesce is how long Disconnect waits for in-flight work, in milliseconds.
const mqttQuiesce = 250

// MQTT keeps the latest count published on a topic. Unlike the other sources
// it does not query on demand: Count returns the last value received, waiting
// for the first message when nothing has arrived yet.
type MQTT struct {
	// client is the broker connection; nil in tests.
	client mqtt.Client
	// topic carries the counts.
	topic string
	// ready is closed by the first message or subscription failure.
	ready chan struct{}
	// readyOnce guards close(ready).
	readyOnce sync.Once

	// mu protects the fields below; messages arrive on paho's goroutines.
	mu sync.Mutex
	// latest is the last valid count.
	latest int
	// lastErr is the error of the last message or subscription, cleared by a valid count.
	lastErr error
}

// newMQTT creates an unconnected source.
func newMQTT(topic string) *MQTT {
	return &MQTT{
		topic: topic,
		ready: make(chan struct{}),
	}
}

// ConnectMQTT connects to the broker and subscribes to the topic, again after every reconnect.
func ConnectMQTT(cfg *config.MQTTSource) (*MQTT, error) {
	m := newMQTT(cfg.Topic)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetOnConnectHandler(func(client mqtt.Client) {
			token := client.Subscribe(cfg.Topic, cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
				m.handle(msg.Payload())
			})
			if token.Wait() && token.Error() != nil {
				m.fail(fmt.Errorf("subscribe %s: %w", cfg.Topic, token.Error()))
			}
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}

	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, token.Error())
	}

	m.client = client

	return m, nil
}

// Count returns the latest count received. Before the first message it blocks
// until one arrives or ctx is done.
func (m *MQTT) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("wait for the first message on %s: %w", m.topic, ctx.Err())
	case <-m.ready:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastErr != nil {
		return 0, m.lastErr
	}

	return m.latest, nil
}

// Close unsubscribes and disconnects.
func (m *MQTT) Close() error {
	if m.client == nil {
		return nil
	}

	m.client.Unsubscribe(m.topic).WaitTimeout(mqttQuiesce * time.Millisecond)
	m.client.Disconnect(mqttQuiesce)

	return nil
}

// handle stores a count from a message payload.
func (m *MQTT) handle(payload []byte) {
	count, err := parsePayload(payload, config.DefaultCountField)
	if err != nil {
		m.fail(fmt.Errorf("message on %s: %w", m.topic, err))

		return
	}

	m.mu.Lock()
	m.latest = count
	m.lastErr = nil
	m.mu.Unlock()

	m.markReady()
}

// fail records err so the next Count reports it.
func (m *MQTT) fail(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	m.markReady()
}

// markReady releases callers waiting for the first message.
func (m *MQTT) markReady() {
	m.readyOnce.Do(func() {
		close(m.ready)
	})
}
