package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adw-dev/adw/pkg/models"
	"github.com/spf13/viper"
)

func TestGetConfigDir(t *testing.T) {
	t.Run("WithoutXDGConfigHome", func(t *testing.T) {
		origXDG := os.Getenv("XDG_CONFIG_HOME")
		defer func() { _ = os.Setenv("XDG_CONFIG_HOME", origXDG) }()

		_ = os.Unsetenv("XDG_CONFIG_HOME")

		dir := getConfigDir()
		if !filepath.IsAbs(dir) {
			t.Errorf("getConfigDir() should return absolute path, got %s", dir)
		}
		if filepath.Base(dir) != ".adw" {
			t.Errorf("getConfigDir() should end with '.adw', got %s", dir)
		}
	})
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	viper.Reset()

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if viper.GetString("worktree.basedir") != ".worktrees" {
		t.Errorf("Default worktree.basedir not set correctly, got %s", viper.GetString("worktree.basedir"))
	}
	if !viper.GetBool("worktree.auto_mkdir") {
		t.Errorf("Default worktree.auto_mkdir should be true")
	}
	if !viper.GetBool("finder.preview") {
		t.Errorf("Default finder.preview should be true")
	}
	if !viper.GetBool("ui.icons") {
		t.Errorf("Default ui.icons should be true")
	}
	if viper.GetInt("daemon.max_concurrent") != 3 {
		t.Errorf("Default daemon.max_concurrent should be 3")
	}
	if viper.GetString("workflow.default_complexity") != "standard" {
		t.Errorf("Default workflow.default_complexity should be standard")
	}

	t.Cleanup(func() {
		viper.Reset()
	})
}

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
	})
	viper.Set("worktree.basedir", "~/test-worktrees")
	viper.Set("worktree.auto_mkdir", false)
	viper.Set("finder.preview", false)
	viper.Set("ui.icons", false)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Worktree.AutoMkdir {
		t.Errorf("WorktreeConfig.AutoMkdir = %v, want false", cfg.Worktree.AutoMkdir)
	}
	if cfg.Finder.Preview {
		t.Errorf("FinderConfig.Preview = %v, want false", cfg.Finder.Preview)
	}
	if cfg.UI.Icons {
		t.Errorf("UIConfig.Icons = %v, want false", cfg.UI.Icons)
	}
}

func TestPathExpansion(t *testing.T) {
	t.Run("HomeDirectoryExpansion", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(func() {
			viper.Reset()
		})
		viper.Set("worktree.basedir", "~/worktrees")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if !filepath.IsAbs(cfg.Worktree.BaseDir) {
			t.Errorf("Expanded path should be absolute, got %s", cfg.Worktree.BaseDir)
		}
	})

	t.Run("EnvironmentVariableExpansion", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(func() {
			viper.Reset()
		})
		_ = os.Setenv("TEST_WORKTREE_DIR", "/test/path")
		defer func() { _ = os.Unsetenv("TEST_WORKTREE_DIR") }()

		viper.Set("worktree.basedir", "$TEST_WORKTREE_DIR/worktrees")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		expected := "/test/path/worktrees"
		if cfg.Worktree.BaseDir != expected {
			t.Errorf("BaseDir = %s, want %s", cfg.Worktree.BaseDir, expected)
		}
	})
}

func TestGettersAndSetters(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
	})

	testKey := "test.key"
	testValue := "test-value"

	viper.Set(testKey, testValue)

	if got := GetValue(testKey); got != testValue {
		t.Errorf("GetValue(%s) = %v, want %v", testKey, got, testValue)
	}
}

func TestAllSettings(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
	})
	viper.Set("test.key1", "value1")
	viper.Set("test.key2", 123)
	viper.Set("test.key3", true)

	settings := AllSettings()
	if len(settings) == 0 {
		t.Error("AllSettings() returned empty map")
	}

	if testSection, ok := settings["test"].(map[string]interface{}); ok {
		if testSection["key1"] != "value1" {
			t.Errorf("AllSettings() missing or incorrect test.key1")
		}
		if testSection["key2"] != 123 {
			t.Errorf("AllSettings() missing or incorrect test.key2")
		}
		if testSection["key3"] != true {
			t.Errorf("AllSettings() missing or incorrect test.key3")
		}
	} else {
		t.Error("AllSettings() missing 'test' section")
	}
}

func TestConfigStructureIntegrity(t *testing.T) {
	t.Cleanup(func() {
		viper.Reset()
	})
	cfg := &models.Config{
		Worktree: models.WorktreeConfig{
			BaseDir:   "/test/worktrees",
			AutoMkdir: true,
		},
		Finder: models.FinderConfig{
			Preview: true,
		},
		UI: models.UIConfig{
			Icons: false,
		},
	}

	viper.Reset()
	viper.Set("worktree.basedir", cfg.Worktree.BaseDir)
	viper.Set("worktree.auto_mkdir", cfg.Worktree.AutoMkdir)
	viper.Set("finder.preview", cfg.Finder.Preview)
	viper.Set("ui.icons", cfg.UI.Icons)

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Worktree.BaseDir != cfg.Worktree.BaseDir {
		t.Errorf("Worktree.BaseDir mismatch")
	}
	if loaded.Worktree.AutoMkdir != cfg.Worktree.AutoMkdir {
		t.Errorf("Worktree.AutoMkdir mismatch")
	}
	if loaded.Finder.Preview != cfg.Finder.Preview {
		t.Errorf("Finder.Preview mismatch")
	}
	if loaded.UI.Icons != cfg.UI.Icons {
		t.Errorf("UI.Icons mismatch")
	}
}
