package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
)

// Validate fills defaults and checks cfg. Every failure wraps ErrInvalid.
//
//nolint:cyclop // A flat list of checks reads better than helpers per field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MeasuredArea <= 0 || math.IsInf(cfg.MeasuredArea, 0) || math.IsNaN(cfg.MeasuredArea) {
		return fmt.Errorf("%w: measured_area must be a positive number, got %v", ErrInvalid, cfg.MeasuredArea)
	}

	if cfg.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrInvalid)
	}

	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	if err := validateLines("light_lines", cfg.LightLines); err != nil {
		return err
	}

	if err := validateLines("audible_lines", cfg.AudibleLines); err != nil {
		return err
	}

	for _, light := range cfg.LightLines {
		for _, audible := range cfg.AudibleLines {
			if light == audible {
				return fmt.Errorf("%w: line %d is used by both light and audible units", ErrInvalid, light)
			}
		}
	}

	if cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = DefaultChip
	}

	if cfg.GPIO.Consumer == "" {
		cfg.GPIO.Consumer = DefaultConsumer
	}

	if err := validateLight(&cfg.Light); err != nil {
		return err
	}

	if err := validateAudible(&cfg.Audible); err != nil {
		return err
	}

	return validateSource(&cfg.Source)
}

// validateLines checks a unit's line list.
func validateLines(name string, lines []int) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: %s must list at least one line", ErrInvalid, name)
	}

	seen := make(map[int]struct{}, len(lines))
	for _, line := range lines {
		if line < 0 {
			return fmt.Errorf("%w: %s contains negative line %d", ErrInvalid, name, line)
		}

		if _, dup := seen[line]; dup {
			return fmt.Errorf("%w: %s lists line %d twice", ErrInvalid, name, line)
		}

		seen[line] = struct{}{}
	}

	return nil
}

// validateLight fills lamp defaults.
func validateLight(light *Light) error {
	if light.FlashDwell < 0 {
		return fmt.Errorf("%w: light.flash_dwell must not be negative", ErrInvalid)
	}

	if light.FlashDwell == 0 {
		light.FlashDwell = DefaultFlashDwell
	}

	return nil
}

// validateAudible fills buzzer defaults and checks the sweep.
func validateAudible(audible *Audible) error {
	if audible.StartFrequency == 0 {
		audible.StartFrequency = DefaultStartFrequency
	}

	if audible.StopFrequency == 0 {
		audible.StopFrequency = DefaultStopFrequency
	}

	if audible.FrequencyStep == 0 {
		audible.FrequencyStep = DefaultFrequencyStep
	}

	if audible.StepDuration == 0 {
		audible.StepDuration = DefaultStepDuration
	}

	if audible.DutyCycle == 0 {
		audible.DutyCycle = DefaultDutyCycle
	}

	switch {
	case audible.StartFrequency < 0 || audible.FrequencyStep < 0:
		return fmt.Errorf("%w: audible frequencies must be positive", ErrInvalid)
	case audible.StopFrequency <= audible.StartFrequency:
		return fmt.Errorf("%w: audible.stop_frequency must exceed start_frequency", ErrInvalid)
	case (audible.StopFrequency-audible.StartFrequency)/audible.FrequencyStep > MaxSweepSteps:
		return fmt.Errorf("%w: audible sweep has more than %d steps, raise frequency_step", ErrInvalid, MaxSweepSteps)
	case audible.StepDuration < 0:
		return fmt.Errorf("%w: audible.step_duration must not be negative", ErrInvalid)
	case audible.DutyCycle < 0 || audible.DutyCycle > 1:
		return fmt.Errorf("%w: audible.duty_cycle must be within (0, 1]", ErrInvalid)
	}

	return nil
}

// validateSource checks the section selected by Kind.
//
//nolint:cyclop // One case per source kind.
func validateSource(source *Source) error {
	if source.Timeout < 0 {
		return fmt.Errorf("%w: source.timeout must not be negative", ErrInvalid)
	}

	switch source.Kind {
	case SourcePostgres:
		if source.Postgres.DSN == "" || source.Postgres.Query == "" {
			return fmt.Errorf("%w: source.postgres needs dsn and query", ErrInvalid)
		}
	case SourceRedis:
		if source.Redis.Key == "" {
			return fmt.Errorf("%w: source.redis needs key", ErrInvalid)
		}

		if err := validateHostPort("source.redis.addr", source.Redis.Addr); err != nil {
			return err
		}
	case SourceHTTP:
		if _, err := url.ParseRequestURI(source.HTTP.URL); err != nil {
			return fmt.Errorf("%w: source.http.url: %w", ErrInvalid, err)
		}

		if source.HTTP.Field == "" {
			source.HTTP.Field = DefaultCountField
		}
	case SourceGRPC:
		if err := validateHostPort("source.grpc.address", source.GRPC.Address); err != nil {
			return err
		}

		if source.GRPC.Method == "" {
			source.GRPC.Method = DefaultGRPCMethod
		}
	case SourceNATS:
		if source.NATS.URL == "" || source.NATS.Subject == "" {
			return fmt.Errorf("%w: source.nats needs url and subject", ErrInvalid)
		}
	case SourceMQTT:
		if source.MQTT.Broker == "" || source.MQTT.Topic == "" {
			return fmt.Errorf("%w: source.mqtt needs broker and topic", ErrInvalid)
		}

		if source.MQTT.ClientID == "" {
			source.MQTT.ClientID = DefaultConsumer
		}

		if source.MQTT.QoS > 2 { //nolint:mnd // MQTT defines QoS 0, 1 and 2.
			return fmt.Errorf("%w: source.mqtt.qos must be 0, 1 or 2", ErrInvalid)
		}
	case SourceStatic:
		if len(source.Static.Counts) == 0 {
			return fmt.Errorf("%w: source.static needs counts", ErrInvalid)
		}

		for _, count := range source.Static.Counts {
			if count < 0 {
				return fmt.Errorf("%w: source.static contains negative count %d", ErrInvalid, count)
			}
		}
	case "":
		return fmt.Errorf("%w: source.kind must be set", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalid, source.Kind)
	}

	return nil
}

// validateHostPort checks a host:port address without resolving it.
func validateHostPort(name, address string) error {
	if address == "" {
		return fmt.Errorf("%w: %s must be set", ErrInvalid, name)
	}

	if _, _, err := net.SplitHostPort(address); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}

	return nil
}
