// Package config loads harness settings from an optional YAML file,
// dotenv files, and environment variable overrides, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to a setting's upper-cased name to form its
// environment variable override.
const EnvPrefix = "HOSTTEST_"

// Duration is a time.Duration that unmarshals from YAML strings like
// "2s" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Settings configures a test host.
type Settings struct {
	// Name labels the host in reports and repro lines.
	Name string `yaml:"name"`

	// LogLevel is a logrus level string ("debug", "info", ...).
	LogLevel string `yaml:"logLevel"`

	// Verbose makes every run dump its report, not only failed ones.
	Verbose bool `yaml:"verbose"`

	// EnvFiles are dotenv files loaded after the YAML file. Missing
	// files are tolerated.
	EnvFiles []string `yaml:"envFiles"`

	// RequestTimeout bounds one simulated request.
	RequestTimeout Duration `yaml:"requestTimeout"`

	// SetupTimeout bounds the wait for the process-wide setup routine.
	SetupTimeout Duration `yaml:"setupTimeout"`

	// SigningSecret signs the bearer tokens issued by the token signer.
	SigningSecret string `yaml:"signingSecret"`

	// Vars are exported into the process environment on load, so code
	// under test that reads configuration from the environment sees
	// them.
	Vars map[string]string `yaml:"vars"`
}

// Default returns the settings used when no file or overrides are
// present.
func Default() *Settings {
	return &Settings{
		Name:           "hosttest",
		LogLevel:       logrus.DebugLevel.String(),
		RequestTimeout: Duration(10 * time.Second),
		SetupTimeout:   Duration(30 * time.Second),
	}
}

// Load builds Settings from the YAML file at path (optional: an empty
// path or an absent file yields defaults), then the dotenv files it
// names, then HOSTTEST_-prefixed environment variables. Vars are
// exported into the process environment before returning.
func Load(path string) (*Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading settings file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
	}
	for _, f := range s.EnvFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	for k, v := range s.Vars {
		os.Setenv(k, v)
	}
	return s, nil
}

// applyEnv overlays HOSTTEST_-prefixed environment variables onto s.
func (s *Settings) applyEnv() error {
	if v, ok := os.LookupEnv(EnvPrefix + "NAME"); ok {
		s.Name = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sVERBOSE value %q: %w", EnvPrefix, v, err)
		}
		s.Verbose = b
	}
	if v, ok := os.LookupEnv(EnvPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT value %q: %w", EnvPrefix, v, err)
		}
		s.RequestTimeout = Duration(d)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SETUP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sSETUP_TIMEOUT value %q: %w", EnvPrefix, v, err)
		}
		s.SetupTimeout = Duration(d)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SIGNING_SECRET"); ok {
		s.SigningSecret = v
	}
	return nil
}

// Level returns the parsed logrus level. Load has already validated it.
func (s *Settings) Level() logrus.Level {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}
