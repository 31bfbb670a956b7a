package emu

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"sidbench/emu/log"
	"sidbench/hw/spi"
)

type Config struct {
	Timing TimingConfig `toml:"timing"`
	SPI    SPIConfig    `toml:"spi"`
	Output OutputConfig `toml:"output"`
	Jobs   []JobConfig  `toml:"jobs"`
}

type TimingConfig struct {
	ClockHz     uint64 `toml:"clock_hz"`
	SampleRate  uint64 `toml:"sample_rate"`
	DACRate     uint64 `toml:"dac_rate"`
	ResetTicks  uint64 `toml:"reset_ticks"`
	ReportEvery uint64 `toml:"report_every"` // in samples, 0 disables progress logs
}

// TicksPerSample is the number of clock ticks in one audio sample, 0 if
// there's no sample rate.
func (t TimingConfig) TicksPerSample() uint64 {
	if t.SampleRate == 0 {
		return 0
	}
	return t.ClockHz / t.SampleRate
}

// TicksPerDAC is the number of clock ticks between two output bits.
func (t TimingConfig) TicksPerDAC() uint64 { return t.ClockHz / t.DACRate }

type SPIConfig struct {
	Divider     uint64 `toml:"divider"`
	FastDivider uint64 `toml:"fast_divider"` // used for stimulus replay
	Trail       uint64 `toml:"trail"`
}

// Timing returns the bus timing, with the fast divider if fast is set.
func (c SPIConfig) Timing(fast bool) spi.Timing {
	div := c.Divider
	if fast {
		div = c.FastDivider
	}
	return spi.Timing{Divider: div, Trail: c.Trail}
}

type OutputConfig struct {
	Dir    string `toml:"dir"`
	PDM    bool   `toml:"pdm"`
	WAV    bool   `toml:"wav"`
	Report bool   `toml:"report"`
}

// DefaultTail is how long a stimulus replay keeps running after its last
// event, in seconds.
const DefaultTail = 1.0

// JobConfig describes one run of the batch command.
type JobConfig struct {
	Name     string  `toml:"name"`
	Mode     string  `toml:"mode"` // song, bode or play
	Stimulus string  `toml:"stimulus"`
	Duration float64 `toml:"duration"` // seconds, 0 for the mode default
	Tail     float64 `toml:"tail"`     // seconds after the last stimulus event, 0 for DefaultTail
	Record   string  `toml:"record"`   // stimulus file recording the song or sweep writes
}

// TailSeconds returns the tail of a play job.
func (j *JobConfig) TailSeconds() float64 {
	if j.Tail == 0 {
		return DefaultTail
	}
	return j.Tail
}

// Check reports whether the job can be run.
func (j *JobConfig) Check() error {
	switch j.Mode {
	case "song", "bode":
	case "play":
		if j.Stimulus == "" {
			return errors.Errorf("job %s: play needs a stimulus", j.Name)
		}
	default:
		return errors.Errorf("job %s: unknown mode %q", j.Name, j.Mode)
	}
	if j.Duration < 0 {
		return errors.Errorf("job %s: negative duration %g", j.Name, j.Duration)
	}
	if j.Tail < 0 {
		return errors.Errorf("job %s: negative tail %g", j.Name, j.Tail)
	}
	return nil
}

var defaultConfig = Config{
	Timing: TimingConfig{
		ClockHz:     50_000_000,
		SampleRate:  50_000,
		DACRate:     10_000_000,
		ResetTicks:  5,
		ReportEvery: 50_000,
	},
	SPI: SPIConfig{
		Divider:     20,
		FastDivider: 2,
		Trail:       spi.DefaultTrail,
	},
	Output: OutputConfig{
		Dir:    "tmp",
		PDM:    true,
		WAV:    true,
		Report: true,
	},
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return defaultConfig
}

// Check reports whether the configuration can drive a bench.
func (c *Config) Check() error {
	t := c.Timing
	if t.ClockHz == 0 || t.SampleRate == 0 || t.DACRate == 0 {
		return errors.New("config: clock_hz, sample_rate and dac_rate must be positive")
	}
	if t.ClockHz%t.SampleRate != 0 || t.ClockHz%t.DACRate != 0 {
		return errors.Errorf("config: sample_rate (%d) and dac_rate (%d) must divide clock_hz (%d)",
			t.SampleRate, t.DACRate, t.ClockHz)
	}
	if err := c.SPI.Timing(false).Validate(); err != nil {
		return errors.Wrap(err, "config: spi.divider")
	}
	if err := c.SPI.Timing(true).Validate(); err != nil {
		return errors.Wrap(err, "config: spi.fast_divider")
	}
	for i := range c.Jobs {
		if err := c.Jobs[i].Check(); err != nil {
			return errors.Wrap(err, "config")
		}
	}
	return nil
}

// LoadConfig loads the configuration file at path, missing keys keep their
// default value. An empty path gives the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").
			String("path", path).
			String("key", key.String()).
			End()
	}
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// WriteConfig encodes cfg to w.
func WriteConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
