package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/thermo/environment"
	"github.com/mklimuk/thermo/poll"
)

// Config holds the bus and polling settings. Values come from the optional YAML file and
// are overridden by flags given explicitly on the command line.
type Config struct {
	Adapter    string        `yaml:"adapter"`
	Device     string        `yaml:"device"`
	Speed      string        `yaml:"speed"`
	Bus        int           `yaml:"bus"`
	Address    string        `yaml:"address"`
	Interval   time.Duration `yaml:"interval"`
	Seed       *uint64       `yaml:"seed"`
	RangeCheck bool          `yaml:"range_check"`
}

func defaultConfig() Config {
	return Config{
		Adapter:  "sim",
		Device:   "/dev/i2c-1",
		Bus:      -1,
		Address:  fmt.Sprintf("%#04x", environment.TMP102DefaultAddress),
		Interval: poll.DefaultInterval,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("could not open config file: %w", err)
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not decode config file %s: %w", path, err)
	}
	return cfg, nil
}

// DeviceAddress parses the configured 7-bit address (decimal, 0x hex or 0b binary).
func (cfg Config) DeviceAddress() (byte, error) {
	v, err := strconv.ParseUint(cfg.Address, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid device address %q: %w", cfg.Address, err)
	}
	if v > 0x7F {
		return 0, fmt.Errorf("invalid device address %q: not a 7-bit address", cfg.Address)
	}
	return byte(v), nil
}

var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "sim",
		Usage:   "bus adapter: sim, mcp2221, generic or gobot",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "/dev/i2c-1",
		Usage:   "I2C device for the generic adapter",
	},
	&cli.StringFlag{
		Name:  "speed",
		Usage: "bus clock for the generic adapter, e.g. 100kHz or 400kHz (driver default when empty)",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: -1,
		Usage: "I2C bus number for the gobot adapter (-1 selects the board default)",
	},
	&cli.StringFlag{
		Name:  "address",
		Value: "0x48",
		Usage: "7-bit sensor address",
	},
	&cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the simulated sensor",
	},
}

// resolveConfig merges defaults, the config file and explicitly set flags.
func resolveConfig(c *cli.Context) (Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("speed") {
		cfg.Speed = c.String("speed")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		cfg.Address = c.String("address")
	}
	if c.IsSet("seed") {
		seed := c.Uint64("seed")
		cfg.Seed = &seed
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("range-check") {
		cfg.RangeCheck = c.Bool("range-check")
	}
	return cfg, nil
}
