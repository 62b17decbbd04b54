// filepath: internal/cli/config_loader.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"snapstream/internal/config"
	"snapstream/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "SNAPSTREAM"
	defaultConfigPath = "config.toml"
	defaultEnvFile    = ".env"
)

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags variables
	cfgFile            string
	envFile            string
	port               int
	logLevel           string
	backendURL         string
	cookieSecret       string
	maxUpload          string
	notificationSource string
	auditEnabled       bool
)

// newEnv returns a viper instance that resolves keys like "backend-url"
// to SNAPSTREAM_BACKEND_URL.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// loadEnvFile loads a dotenv file into the process environment. Variables
// that are already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// 1. Dotenv, then the config path from the environment
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	env := newEnv()
	if p := env.GetString("config_path"); p != "" && cfgFile == defaultConfigPath {
		cfgFile = p
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, env, cmd)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)

	return nil
}

func applyOverrides(c *config.Config, env *viper.Viper, cmd *cobra.Command) {
	// --- Environment Variables ---
	if env.IsSet("host") {
		c.Server.Host = env.GetString("host")
	}
	if p := env.GetInt("port"); p > 0 {
		c.Server.Port = p
	}
	if v := env.GetString("log-level"); v != "" {
		c.Logging.Level = v
	}
	if env.IsSet("audit-enabled") {
		c.Logging.AuditEnabled = env.GetBool("audit-enabled")
	}
	if v := env.GetString("backend-url"); v != "" {
		c.Backend.URL = v
	}
	if v := env.GetString("cookie-secret"); v != "" {
		c.CookieSecret = v
	}
	if v := env.GetString("max-upload"); v != "" {
		c.Server.MaxUploadSize = v
	}
	if v := env.GetString("notifications"); v != "" {
		c.Notifications.Source = v
	}
	if env.IsSet("cookie-secure") {
		c.Cookie.Secure = env.GetBool("cookie-secure")
	}

	// --- CLI Flags ---
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if backendURL != "" {
		c.Backend.URL = backendURL
	}
	if cookieSecret != "" {
		c.CookieSecret = cookieSecret
	}
	if maxUpload != "" {
		c.Server.MaxUploadSize = maxUpload
	}
	if notificationSource != "" {
		c.Notifications.Source = notificationSource
	}

	// --- Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
