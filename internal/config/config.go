package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the controller needs, loaded once at startup.
type Config struct {
	// MeasuredArea is the monitored floor area in square metres.
	MeasuredArea float64 `yaml:"measured_area"`
	// Interval is the pause between the end of a broadcast and the next fetch.
	Interval time.Duration `yaml:"interval"`
	// LightLines are the lamp line offsets; the first one is the caution lamp.
	LightLines []int `yaml:"light_lines"`
	// AudibleLines are the buzzer line offsets.
	AudibleLines []int `yaml:"audible_lines"`
	// GPIO selects the chip the lines live on.
	GPIO GPIO `yaml:"gpio"`
	// Light tunes the lamp warning flash.
	Light Light `yaml:"light"`
	// Audible tunes the buzzer warning sweep.
	Audible Audible `yaml:"audible"`
	// Source selects and configures the occupancy source.
	Source Source `yaml:"source"`
}

// GPIO selects the chip the alert lines live on.
type GPIO struct {
	// Chip is a character device name such as "gpiochip0", or SimulatedChip.
	Chip string `yaml:"chip"`
	// Consumer is the label the kernel shows for claimed lines.
	Consumer string `yaml:"consumer"`
}

// Light tunes the lamp unit.
type Light struct {
	// FlashDwell is how long each lamp stays on, then off, during a warning.
	FlashDwell time.Duration `yaml:"flash_dwell"`
}

// Audible tunes the buzzer unit.
type Audible struct {
	// StartFrequency is the first sweep frequency in Hz.
	StartFrequency float64 `yaml:"start_frequency"`
	// StopFrequency is the exclusive upper sweep bound in Hz.
	StopFrequency float64 `yaml:"stop_frequency"`
	// FrequencyStep is the sweep increment in Hz.
	FrequencyStep float64 `yaml:"frequency_step"`
	// StepDuration is how long each frequency is held.
	StepDuration time.Duration `yaml:"step_duration"`
	// DutyCycle is the high share of each tone period.
	DutyCycle float64 `yaml:"duty_cycle"`
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "crowd-alarm.yaml"

	// DefaultInterval is the default pause between ticks.
	DefaultInterval = time.Second

	// DefaultChip is the default GPIO character device.
	DefaultChip = "gpiochip0"

	// SimulatedChip selects the in-memory chip instead of real hardware.
	SimulatedChip = "simulated"

	// DefaultConsumer is the default kernel label for claimed lines.
	DefaultConsumer = "crowd-alarm"

	// DefaultFlashDwell is the default lamp on/off time during a warning.
	DefaultFlashDwell = 150 * time.Millisecond

	// DefaultStartFrequency is the default first sweep frequency.
	DefaultStartFrequency = 700.0

	// DefaultStopFrequency is the default exclusive sweep bound.
	DefaultStopFrequency = 1500.0

	// DefaultFrequencyStep is the default sweep increment.
	DefaultFrequencyStep = 50.0

	// DefaultStepDuration is the default time each sweep frequency is held.
	DefaultStepDuration = 100 * time.Millisecond

	// DefaultDutyCycle is the default buzzer duty cycle.
	DefaultDutyCycle = 0.95

	// MaxSweepSteps caps the number of frequencies in the buzzer sweep.
	MaxSweepSteps = 1000

	// DefaultFilePermissions is the permission used when saving settings.
	DefaultFilePermissions = 0o600
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// Load reads configuration from path, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = LoadDotEnv(); err != nil {
		return nil, err
	}

	if err = ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path after validating it.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Settings may hold database credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Sample returns a ready-to-edit configuration wired to the static source.
func Sample() *Config {
	return &Config{
		MeasuredArea: 10,
		Interval:     DefaultInterval,
		LightLines:   []int{17, 27, 22},
		AudibleLines: []int{18},
		GPIO: GPIO{
			Chip:     DefaultChip,
			Consumer: DefaultConsumer,
		},
		Light: Light{
			FlashDwell: DefaultFlashDwell,
		},
		Audible: Audible{
			StartFrequency: DefaultStartFrequency,
			StopFrequency:  DefaultStopFrequency,
			FrequencyStep:  DefaultFrequencyStep,
			StepDuration:   DefaultStepDuration,
			DutyCycle:      DefaultDutyCycle,
		},
		Source: Source{
			Kind: SourceStatic,
			Static: StaticSource{
				Counts: []int{30, 38, 45, 70},
			},
		},
	}
}
