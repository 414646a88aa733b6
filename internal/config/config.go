package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// PLC contains fieldbus connection settings.
//
// Three drivers are supported: "opcua" (named boolean variables on an OPC UA
// server, the OMRON NX102 setup), "modbus" (coils and discrete inputs over
// TCP or RTU), and "sim" (in-memory simulator for development and tests).
type PLC struct {
	Driver            string `toml:"driver"`
	Endpoint          string `toml:"endpoint"`
	Namespace         int    `toml:"namespace"`
	NamingScheme      string `toml:"naming_scheme"`
	EmergencyVariable string `toml:"emergency_variable"`
	SerialDevice      string `toml:"serial_device"`
	BaudRate          int    `toml:"baud_rate"`
	SlaveID           int    `toml:"slave_id"`
	CoilBase          int    `toml:"coil_base"`
	InputBase         int    `toml:"input_base"`
	EmergencyInput    int    `toml:"emergency_input"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Rack describes the physical rack layout.
type Rack struct {
	Positions int `toml:"positions"`
	Rows      int `toml:"rows"`
	Columns   int `toml:"columns"`
}

// Operation contains supervisor timing and reconciliation settings.
type Operation struct {
	ScanIntervalMS   int  `toml:"scan_interval_ms"`
	ButtonDebounceMS int  `toml:"button_debounce_ms"`
	AutoLEDSync      bool `toml:"auto_led_sync"`
}

// Queue contains task history retention caps.
type Queue struct {
	CompletedHistory int `toml:"completed_history"`
	FailedHistory    int `toml:"failed_history"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rackd.
type Config struct {
	Paths     Paths     `toml:"paths"`
	PLC       PLC       `toml:"plc"`
	Rack      Rack      `toml:"rack"`
	Operation Operation `toml:"operation"`
	Queue     Queue     `toml:"queue"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rackd/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rackd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// ScanInterval returns the supervisor tick interval.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Operation.ScanIntervalMS) * time.Millisecond
}

// DebounceWindow returns the minimum spacing between accepted button presses.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Operation.ButtonDebounceMS) * time.Millisecond
}

// PLCTimeout returns the per-call fieldbus I/O deadline.
func (c *Config) PLCTimeout() time.Duration {
	return time.Duration(c.PLC.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
