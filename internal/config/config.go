package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/noorform/internal/errors"
)

const (
	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultLocale is the locale used when none is configured.
	DefaultLocale = "en"

	// DefaultMetricsPath is the route serving Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "noorform"

	// DefaultIdleTimeout closes live sessions with no client traffic.
	DefaultIdleTimeout = "60s"

	// DefaultMaxMessageBytes limits the size of a live client message.
	DefaultMaxMessageBytes = 4096

	// SinkLog writes submissions to the logger.
	SinkLog = "log"

	// SinkS3 stores submissions as objects in an S3 bucket.
	SinkS3 = "s3"

	// SinkFile writes submissions as JSON files under a directory.
	SinkFile = "file"
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"noorform.json", "noorform.yaml", "noorform.yml"}

// SupportedLocales lists the locales the catalog ships messages for.
var SupportedLocales = []string{"en", "ar"}

// Environment variables that override file settings.
const (
	EnvAddr   = "NOORFORM_ADDR"
	EnvDev    = "NOORFORM_DEV"
	EnvLocale = "NOORFORM_LOCALE"
)

// Config is the complete server configuration.
type Config struct {
	// Server contains listener settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Locale is the fallback locale when a request does not negotiate one.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`

	// DevMode relaxes origin checks and logs submission failures.
	DevMode bool `json:"devMode,omitempty" yaml:"devMode,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Sink selects where successful submissions go.
	Sink SinkConfig `json:"sink" yaml:"sink"`

	// Session contains live session limits.
	Session SessionConfig `json:"session" yaml:"session"`

	configPath string
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// TracerName names the tracer spans are created with.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// SinkConfig selects where successful submissions go.
type SinkConfig struct {
	// Kind is "log", "s3" or "file".
	Kind string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	S3   S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// Dir is the output directory of the file sink.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// S3Config locates the bucket submissions are written to.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// SessionConfig contains live session limits.
type SessionConfig struct {
	// IdleTimeout closes a live session with no client traffic (e.g., "60s").
	IdleTimeout string `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`

	// MaxMessageBytes limits the size of one client message.
	MaxMessageBytes int64 `json:"maxMessageBytes,omitempty" yaml:"maxMessageBytes,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
		},
		Locale: DefaultLocale,
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: "noorform",
		},
		Sink: SinkConfig{
			Kind: SinkLog,
		},
		Session: SessionConfig{
			IdleTimeout:     DefaultIdleTimeout,
			MaxMessageBytes: DefaultMaxMessageBytes,
		},
	}
}

// Load reads configuration from the specified directory.
// It uses the first of FileNames that exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("F103").
		WithDetail("No noorform.json or noorform.yaml found in " + dir).
		WithSuggestion("Create noorform.json or pass --config")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, anything else is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F103").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("F100").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("F100").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path in the format
// matching its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("F100").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv overrides settings from NOORFORM_* variables found by lookup.
// A nil lookup uses os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if addr, ok := lookup(EnvAddr); ok && addr != "" {
		if err := c.SetAddress(addr); err != nil {
			return err
		}
	}
	if dev, ok := lookup(EnvDev); ok && dev != "" {
		on, err := strconv.ParseBool(dev)
		if err != nil {
			return errors.New("F100").
				WithDetail(EnvDev + " must be a boolean, got " + strconv.Quote(dev))
		}
		c.DevMode = on
	}
	if locale, ok := lookup(EnvLocale); ok && locale != "" {
		c.Locale = strings.ToLower(locale)
	}
	return nil
}

// SetAddress sets host and port from a "host:port" string. An empty host
// keeps listening on all interfaces.
func (c *Config) SetAddress(addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("F101").
			WithDetail("Address must be host:port, got " + strconv.Quote(addr))
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return errors.New("F101").
			WithDetail("Port must be a number, got " + strconv.Quote(portStr))
	}
	c.Server.Host = host
	c.Server.Port = port
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	c.Locale = strings.ToLower(c.Locale)

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "noorform"
	}

	if c.Sink.Kind == "" {
		c.Sink.Kind = SinkLog
	}

	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = DefaultIdleTimeout
	}
	if c.Session.MaxMessageBytes <= 0 {
		c.Session.MaxMessageBytes = DefaultMaxMessageBytes
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("F101").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}

	if !isSupportedLocale(c.Locale) {
		return errors.New("F102").
			WithDetail("Locale " + strconv.Quote(c.Locale) + " is not supported").
			WithSuggestion("Use one of: " + strings.Join(SupportedLocales, ", "))
	}

	for name, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"session.idleTimeout":    c.Session.IdleTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.New("F104").
				WithDetail(name + " is " + strconv.Quote(value)).
				Wrap(err)
		}
	}

	switch c.Sink.Kind {
	case SinkLog:
	case SinkS3:
		if c.Sink.S3.Bucket == "" {
			return errors.New("F100").
				WithDetail("sink.s3.bucket is required when sink.kind is s3")
		}
	case SinkFile:
		if c.Sink.Dir == "" {
			return errors.New("F100").
				WithDetail("sink.dir is required when sink.kind is file")
		}
	default:
		return errors.New("F100").
			WithDetail("sink.kind must be log, s3 or file, got " + strconv.Quote(c.Sink.Kind))
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("F100").
			WithDetail("metrics.path must start with /")
	}

	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// IdleTimeout returns the parsed live session idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	return parseDuration(c.Session.IdleTimeout, 60*time.Second)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
