// Package config loads and validates sift.json, the project configuration
// file. Every field has a sensible default so a project without a config
// file still builds and serves.
package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sift-dev/sift/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "sift.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultRoutes is the default routes directory.
	DefaultRoutes = "app/routes"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config represents the complete sift.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Routes is the path to the routes directory.
	Routes string `json:"routes,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains build output configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Artifact contains snapshot publishing configuration.
	Artifact ArtifactConfig `json:"artifact,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`

	// HotReload enables browser reload on rebuild.
	HotReload bool `json:"hotReload,omitempty"`
}

// BuildConfig contains build output settings.
type BuildConfig struct {
	// Output is the output directory for compiled bundles.
	Output string `json:"output,omitempty"`

	// Pretty enables indented JSON in emitted bundles.
	Pretty bool `json:"pretty,omitempty"`
}

// ArtifactConfig contains snapshot publishing settings.
type ArtifactConfig struct {
	// Store selects the artifact backend: "disk" or "s3".
	Store string `json:"store,omitempty"`

	// Dir is the local directory for the disk store.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket for the s3 store.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix for uploaded bundles.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region for the s3 store.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Routes:  DefaultRoutes,
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			Watch:     []string{"app"},
			HotReload: true,
		},
		Build: BuildConfig{
			Output: DefaultOutput,
		},
		Artifact: ArtifactConfig{
			Store: "disk",
			Dir:   DefaultOutput,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for sift.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("S401").
				WithDetail("No sift.json found in " + filepath.Dir(path)).
				WithSuggestion("Create sift.json in the project root, or rely on defaults with LoadOrDefault")
		}
		return nil, errors.New("S401").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("S402").
			WithDetail("Failed to parse sift.json: " + err.Error()).
			WithSuggestion("Check that sift.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads configuration from the directory, falling back to
// defaults when no sift.json exists. Malformed files still fail.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		var se *errors.SiftError
		if stderrors.As(err, &se) && se.Code == "S401" && se.Wrapped == nil {
			return New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("S402").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("S401").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Routes == "" {
		c.Routes = DefaultRoutes
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"app"}
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Artifact.Store == "" {
		c.Artifact.Store = "disk"
	}
	if c.Artifact.Store == "disk" && c.Artifact.Dir == "" {
		c.Artifact.Dir = c.Build.Output
	}
}

// validate rejects values outside their allowed range.
func (c *Config) validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("S403").
			WithDetail("dev.port must be between 1 and 65535")
	}
	switch c.Artifact.Store {
	case "disk", "s3":
	default:
		return errors.New("S403").
			WithDetail("artifact.store must be \"disk\" or \"s3\", got " + strconv.Quote(c.Artifact.Store))
	}
	if c.Artifact.Store == "s3" && c.Artifact.Bucket == "" {
		return errors.New("S403").
			WithDetail("artifact.bucket is required when artifact.store is \"s3\"")
	}
	return nil
}
