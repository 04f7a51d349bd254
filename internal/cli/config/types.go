// Package config provides configuration management for the docs CLI.
package config

// VenvConfig describes the Python virtual environment the tooling
// builds for pandoc filters and other document processing helpers.
type VenvConfig struct {
	// Python is the interpreter used to create the environment.
	Python string `koanf:"python"`

	// Prefix is the directory the environment lives in.
	Prefix string `koanf:"prefix"`

	// Requirements are pip requirements files installed in order.
	Requirements []string `koanf:"requirements"`
}

// ServeConfig holds settings for the preview server.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// DefaultServeConfig returns a ServeConfig with default values.
func DefaultServeConfig() *ServeConfig {
	return &ServeConfig{Port: 8765}
}

// GetServeConfig returns the serve config with defaults applied for any
// unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return DefaultServeConfig()
	}
	serve := c.Serve
	if serve.Port == 0 {
		serve.Port = 8765
	}
	return serve
}

// Config holds all CLI configuration options.
type Config struct {
	// DocsRoot is the directory holding the markdown tree.
	DocsRoot string `koanf:"docs_root"`

	// IndexPath is the SQLite document index location.
	IndexPath string `koanf:"index_path"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	Venv  *VenvConfig  `koanf:"venv"`
	Serve *ServeConfig `koanf:"serve"`

	// ProjectRoot is the resolved project root; not read from the
	// config file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDocsRoot  = "docs"
	DefaultIndexFile = ".mdtools/index.db"
	DefaultPython    = "python3"
	DefaultVenvDir   = ".venv"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// DefaultVenvConfig returns a VenvConfig with default values.
func DefaultVenvConfig() *VenvConfig {
	return &VenvConfig{
		Python:       DefaultPython,
		Prefix:       DefaultVenvDir,
		Requirements: []string{"requirements.txt"},
	}
}

// GetVenvConfig returns the venv config with defaults applied for any
// unset values.
func (c *Config) GetVenvConfig() *VenvConfig {
	if c.Venv == nil {
		return DefaultVenvConfig()
	}
	venv := c.Venv
	if venv.Python == "" {
		venv.Python = DefaultPython
	}
	if venv.Prefix == "" {
		venv.Prefix = DefaultVenvDir
	}
	if len(venv.Requirements) == 0 {
		venv.Requirements = []string{"requirements.txt"}
	}
	return venv
}
