package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/Valitseja/doit/internal/task"
)

// Config holds the resolved configuration for one invocation.
type Config struct {
	// DB is the dependency store path, relative to the work directory
	// unless absolute.
	DB string

	// Reporter is the default reporter name for run.
	Reporter string

	// Verbosity is the default global verbosity for run.
	Verbosity int
}

// fileConfig is the JWCC shape of a config file. Pointers distinguish
// "absent" from zero values during merging.
type fileConfig struct {
	DB        *string `json:"db"`
	Reporter  *string `json:"reporter"`
	Verbosity *int    `json:"verbosity"`
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".doit.json"

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DB:        ".doit.db.json",
		Reporter:  "console",
		Verbosity: task.VerbosityDefault,
	}
}

// LoadConfig resolves configuration with the following precedence
// (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/doit/config.json or
//     ~/.config/doit/config.json)
//  3. Project config at <workDir>/.doit.json, if present
//  4. Explicit config file via configPath
//
// CLI flags are applied by the caller on top of the result.
func LoadConfig(workDir, configPath string, env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if globalPath := globalConfigPath(env); globalPath != "" {
		if err := mergeConfigFile(&cfg, globalPath, false); err != nil {
			return Config{}, err
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)
	if err := mergeConfigFile(&cfg, projectPath, false); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(workDir, configPath)
		}

		// An explicitly named config file must exist.
		if err := mergeConfigFile(&cfg, configPath, true); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// globalConfigPath returns the global config location, or empty when no
// home directory can be determined.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "doit", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "doit", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "doit", "config.json")
	}

	return ""
}

func mergeConfigFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path from user input
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}

		return fmt.Errorf("%w: %s: %v", errConfigRead, path, err)
	}

	// Config files are JWCC: JSON with comments and trailing commas.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errConfigInvalid, path, err)
	}

	var fileCfg fileConfig
	if err := json.Unmarshal(standardized, &fileCfg); err != nil {
		return fmt.Errorf("%w: %s: %v", errConfigInvalid, path, err)
	}

	if fileCfg.DB != nil {
		cfg.DB = *fileCfg.DB
	}

	if fileCfg.Reporter != nil {
		cfg.Reporter = *fileCfg.Reporter
	}

	if fileCfg.Verbosity != nil {
		cfg.Verbosity = *fileCfg.Verbosity
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.DB == "" {
		return errDBPathEmpty
	}

	if cfg.Verbosity < task.VerbositySilent || cfg.Verbosity > task.VerbosityVerbose {
		return fmt.Errorf("%w: verbosity %d", errConfigInvalid, cfg.Verbosity)
	}

	return nil
}

// resolveDB returns the absolute dependency store path.
func resolveDB(cfg Config, workDir string) string {
	if filepath.IsAbs(cfg.DB) {
		return cfg.DB
	}

	return filepath.Join(workDir, cfg.DB)
}
