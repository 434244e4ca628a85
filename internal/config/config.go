// Package config provides configuration management for the adw application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adw-dev/adw/pkg/models"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
)

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return filepath.Join(".", ".adw")
	}
	return filepath.Join(home, ".adw")
}

// Init initializes the configuration system, creating default config if needed.
func Init() error {
	configDir := getConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigName(configName)
	viper.SetConfigType(configType)
	viper.AddConfigPath(configDir)

	// Core defaults
	viper.SetDefault("core.tasks_file", "tasks.md")
	viper.SetDefault("core.agents_dir", "agents")

	// Daemon defaults
	viper.SetDefault("daemon.poll_interval", "5s")
	viper.SetDefault("daemon.max_concurrent", 3)
	viper.SetDefault("daemon.auto_start", true)
	viper.SetDefault("daemon.wait_on_sigint", false)

	// Workflow defaults
	viper.SetDefault("workflow.default_complexity", "standard")
	viper.SetDefault("workflow.max_retries", 2)
	viper.SetDefault("workflow.max_test_retries", 3)
	viper.SetDefault("workflow.test_validation_enabled", true)
	viper.SetDefault("workflow.test_command_override", "")
	viper.SetDefault("workflow.expertise_preamble", true)

	// Agent defaults
	viper.SetDefault("agent.executable", "claude")
	viper.SetDefault("agent.default_model", "sonnet")
	viper.SetDefault("agent.skip_permissions", true)
	viper.SetDefault("agent.timeout", "2h")
	viper.SetDefault("agent.retry_delays_seconds", []int{1, 3, 5})
	viper.SetDefault("agent.rate_limit_multiplier", 3)
	viper.SetDefault("agent.env_allowlist", []string{
		"PATH", "HOME", "USER", "SHELL", "LANG", "TERM", "TZ", "TMPDIR",
		"ANTHROPIC_API_KEY", "HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY",
		"http_proxy", "https_proxy", "no_proxy",
	})

	// Port defaults
	viper.SetDefault("ports.range_start", 3000)
	viper.SetDefault("ports.range_end", 9999)
	viper.SetDefault("ports.default_kinds", []string{"app"})

	// Worktree defaults
	viper.SetDefault("worktree.basedir", ".worktrees")
	viper.SetDefault("worktree.auto_mkdir", true)
	viper.SetDefault("worktree.remove_on_failure", false)
	viper.SetDefault("worktree.default_base_branch", "main")

	// Finder defaults
	viper.SetDefault("finder.preview", true)
	viper.SetDefault("finder.preview_size", 3)
	viper.SetDefault("finder.keybind_select", "enter")
	viper.SetDefault("finder.keybind_cancel", "esc")

	// UI defaults
	viper.SetDefault("ui.color", true)
	viper.SetDefault("ui.icons", true)
	viper.SetDefault("ui.tilde_home", true)

	// Tmux (optional attach) defaults
	viper.SetDefault("tmux.enabled", false)
	viper.SetDefault("tmux.tmux_command", "tmux")
	viper.SetDefault("tmux.history_limit", 50000)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configPath := filepath.Join(configDir, configName+"."+configType)
			if err := viper.SafeWriteConfig(); err != nil {
				if err := viper.WriteConfigAs(configPath); err != nil {
					return fmt.Errorf("failed to create config file: %w", err)
				}
			}
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory and
// expands any environment variables embedded in the path.
func expandHome(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Load loads and returns the current configuration.
func Load() (*models.Config, error) {
	var cfg models.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyPathExpansions(&cfg)
	return &cfg, nil
}

func applyPathExpansions(cfg *models.Config) {
	cfg.Core.TasksFile = expandHome(cfg.Core.TasksFile)
	cfg.Core.AgentsDir = expandHome(cfg.Core.AgentsDir)
	cfg.Worktree.BaseDir = expandHome(cfg.Worktree.BaseDir)

	if cfg.Daemon.PollInterval == 0 {
		cfg.Daemon.PollInterval = 5 * time.Second
	}
	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = 2 * time.Hour
	}
}

// Set sets a configuration value by key.
func Set(key string, value any) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// GetValue retrieves a configuration value by key.
func GetValue(key string) any {
	return viper.Get(key)
}

// AllSettings returns all configuration settings.
func AllSettings() map[string]any {
	return viper.AllSettings()
}

// Get returns the current loaded configuration, loading it if necessary.
func Get() *models.Config {
	cfg, err := Load()
	if err != nil {
		var defaultCfg models.Config
		if err := viper.Unmarshal(&defaultCfg); err != nil {
			return &models.Config{}
		}
		applyPathExpansions(&defaultCfg)
		return &defaultCfg
	}
	return cfg
}
