// Package env collects the settings shared by the rtecom binaries from
// built-in defaults, an optional YAML file, environment variables and
// command line flags, in increasing priority.
package env

import (
	"flag"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/rtecom/pkg/rtecom"
)

// Config provides common options for hosts and simulated devices.
type Config struct {
	// URL is the transport the host opens, e.g. serial:///dev/ttyUSB0?baud=115200
	URL string `yaml:"url"`
	// Listen is the transport a simulated device serves, e.g. tcp://:7400
	Listen string `yaml:"listen"`
	// Device names the device, also used as the MQTT topic.
	Device string `yaml:"device"`

	SingleWire bool `yaml:"single_wire"`
	// Timeout drops an unfinished packet on the device.
	Timeout time.Duration `yaml:"timeout"`
	// ResponseTimeout is the host wait for every response byte.
	ResponseTimeout time.Duration `yaml:"response_timeout"`
	MaxTransfer     int           `yaml:"max_transfer"`

	// BufferWords is the simulated debug-log buffer size.
	BufferWords int `yaml:"buffer_words"`
	// MemoryRanges are the windows open to raw memory commands.
	MemoryRanges []rtecom.AddressRange `yaml:"memory_ranges"`
	// Noise is the simulated line error rate.
	Noise float64 `yaml:"noise"`
}

// Environment variables.
const (
	EnvURL        = "RTECOM_URL"
	EnvListen     = "RTECOM_LISTEN"
	EnvDevice     = "RTECOM_DEVICE"
	EnvSingleWire = "RTECOM_SINGLE_WIRE"
	EnvTimeout    = "RTECOM_TIMEOUT"
)

func builtinConfig() Config {
	return Config{
		URL:             "tcp://localhost:7400",
		Listen:          "tcp://:7400",
		Timeout:         100 * time.Millisecond,
		ResponseTimeout: 500 * time.Millisecond,
		MaxTransfer:     rtecom.DefaultMaxTransfer,
		BufferWords:     1024,
	}
}

var (
	defaultConfig = builtinConfig()
	configFile    string
	envErr        error
)

func init() {
	defaultConfig.Device = DeviceName()
	envErr = defaultConfig.ApplyEnv(os.Getenv)
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if val := getenv(EnvURL); val != "" {
		c.URL = val
	}
	if val := getenv(EnvListen); val != "" {
		c.Listen = val
	}
	if val := getenv(EnvDevice); val != "" {
		c.Device = val
	}
	if val := getenv(EnvSingleWire); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSingleWire, err)
		}
		c.SingleWire = b
	}
	if val := getenv(EnvTimeout); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// BindFlags registers the settings on fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.URL, "url", c.URL, "Transport URL of the device")
	fs.StringVar(&c.Listen, "listen", c.Listen, "Transport URL the simulated device listens on")
	fs.StringVar(&c.Device, "device", c.Device, "Device name")
	fs.BoolVar(&c.SingleWire, "single-wire", c.SingleWire, "Single-wire half-duplex line")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Device receive timeout")
	fs.DurationVar(&c.ResponseTimeout, "response-timeout", c.ResponseTimeout, "Host response timeout")
	fs.IntVar(&c.MaxTransfer, "max-transfer", c.MaxTransfer, "Max bytes in a single response")
	fs.IntVar(&c.BufferWords, "buffer-words", c.BufferWords, "Simulated debug-log buffer words")
	fs.Var((*rangesValue)(&c.MemoryRanges), "memory", "Raw memory windows, e.g. 0x20000000-0x20010000,...")
	fs.Float64Var(&c.Noise, "noise", c.Noise, "Simulated line error rate")
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file")
	defaultConfig.BindFlags(flag.CommandLine)
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile reads settings from a YAML file.
func (c *Config) LoadFile(fn string) error {
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return nil
}

// Resolve layers the config file under the environment and the flags set
// on the command line. It must be called after flag.Parse.
func Resolve() (*Config, error) {
	if envErr != nil {
		return nil, envErr
	}
	if configFile == "" {
		return Default(), Default().Validate()
	}
	conf := builtinConfig()
	conf.Device = defaultConfig.Device
	if err := conf.LoadFile(configFile); err != nil {
		return nil, err
	}
	if err := conf.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	conf.BindFlags(fs)
	var err error
	flag.Visit(func(f *flag.Flag) {
		if fs.Lookup(f.Name) != nil && err == nil {
			err = fs.Set(f.Name, f.Value.String())
		}
	})
	if err != nil {
		return nil, err
	}
	return &conf, conf.Validate()
}

// MustResolve resolves the config and exits on error.
func MustResolve() *Config {
	conf, err := Resolve()
	if err != nil {
		glog.Exitf("invalid config: %v", err)
	}
	return conf
}

// Validate checks the settings.
func (c *Config) Validate() error {
	for _, u := range []string{c.URL, c.Listen} {
		if u == "" {
			continue
		}
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
	}
	if c.Timeout <= 0 || c.ResponseTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxTransfer <= 0 || c.MaxTransfer > rtecom.DefaultMaxTransfer {
		return fmt.Errorf("max transfer %d out of range 1..%d", c.MaxTransfer, rtecom.DefaultMaxTransfer)
	}
	if c.BufferWords <= 0 {
		return fmt.Errorf("buffer words must be positive")
	}
	for _, r := range c.MemoryRanges {
		if r.Start >= r.End {
			return fmt.Errorf("empty memory range 0x%08x-0x%08x", r.Start, r.End)
		}
	}
	if c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("noise %v out of range 0..1", c.Noise)
	}
	return nil
}

// HandlerConfig converts to the protocol engine options.
func (c *Config) HandlerConfig() rtecom.Config {
	return rtecom.Config{
		SingleWire:   c.SingleWire,
		MaxTransfer:  c.MaxTransfer,
		MemoryRanges: c.MemoryRanges,
	}
}

type rangesValue []rtecom.AddressRange

func (v *rangesValue) String() string {
	if v == nil {
		return ""
	}
	strs := make([]string, 0, len(*v))
	for _, r := range *v {
		strs = append(strs, fmt.Sprintf("0x%08x-0x%08x", r.Start, r.End))
	}
	return strings.Join(strs, ",")
}

func (v *rangesValue) Set(s string) error {
	var ranges []rtecom.AddressRange
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		bounds := strings.SplitN(item, "-", 2)
		if len(bounds) != 2 {
			return fmt.Errorf("invalid range %q", item)
		}
		start, err := strconv.ParseUint(bounds[0], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid range %q: %w", item, err)
		}
		end, err := strconv.ParseUint(bounds[1], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid range %q: %w", item, err)
		}
		ranges = append(ranges, rtecom.AddressRange{Start: uint32(start), End: uint32(end)})
	}
	*v = ranges
	return nil
}
