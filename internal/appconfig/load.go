package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/ctxdesk/schema"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("state_dir", cfg.StateDir)
	v.SetDefault("catalog.roots", cfg.Catalog.Roots)
	v.SetDefault("catalog.include", cfg.Catalog.Include)
	v.SetDefault("catalog.exclude", cfg.Catalog.Exclude)
	v.SetDefault("catalog.max_file_bytes", cfg.Catalog.MaxFileBytes)
	v.SetDefault("catalog.follow_symlinks", cfg.Catalog.FollowSymlinks)
	v.SetDefault("editor.debounce_ms", cfg.Editor.DebounceMillis)
	v.SetDefault("editor.min_pane_size", cfg.Editor.MinPaneSize)
	v.SetDefault("editor.markdown_view_mode", cfg.Editor.MarkdownViewMode)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.StateDir) == "" {
		return fmt.Errorf("state_dir is required")
	}
	if cfg.Editor.DebounceMillis < 0 {
		return fmt.Errorf("editor.debounce_ms must not be negative")
	}
	if cfg.Editor.MinPaneSize < 0 || cfg.Editor.MinPaneSize*schema.MaxPanes > 100 {
		return fmt.Errorf("editor.min_pane_size must be between 0 and %d", 100/schema.MaxPanes)
	}
	if _, ok := schema.ParseViewMode(cfg.Editor.MarkdownViewMode); !ok {
		return fmt.Errorf("editor.markdown_view_mode %q is not one of source, preview, split", cfg.Editor.MarkdownViewMode)
	}
	if cfg.Catalog.MaxFileBytes < 0 {
		return fmt.Errorf("catalog.max_file_bytes must not be negative")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.StateDir = expandEnv(cfg.StateDir)
	for i, root := range cfg.Catalog.Roots {
		cfg.Catalog.Roots[i] = expandEnv(root)
	}
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
