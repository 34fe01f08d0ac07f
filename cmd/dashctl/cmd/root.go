// Package cmd provides the CLI commands for dashctl.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dashauth "github.com/bottrapper/dashauth"
	"github.com/bottrapper/dashauth/tokenstore"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "dashctl - BotTrapper dashboard session tool",
	Long: `dashctl manages BotTrapper dashboard sessions from the terminal.

It speaks to the same backend as the web dashboard and shares its token
semantics: one primary Discord session plus per-guild admin-session
tokens for privileged operations.

Configuration:
  Config is loaded from dashctl.yaml in the current directory or
  $HOME/.dashctl/.

  Environment variables can override config values with the DASHAUTH_ prefix.
  Example: DASHAUTH_BASE_URL=https://bot.example.com

Commands:
  login       Establish a session from an OAuth callback URL
  whoami      Print the authenticated identity
  elevate     Generate an admin session for a guild
  validate    Check an admin session against the server
  clear       Clear the primary session or a guild elevation
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dashctl.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "backend origin (overrides config)")
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dashctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".dashctl"))
		}
	}

	viper.SetEnvPrefix("DASHAUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("base_url", "http://localhost:3001")
	viper.SetDefault("request_timeout", "20s")

	// Missing config file is fine; env and defaults carry the tool.
	_ = viper.ReadInConfig()
}

type cliConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
	TokenFile      string        `mapstructure:"token_file" validate:"omitempty,filepath"`
}

func loadCLIConfig() (cliConfig, error) {
	var cfg cliConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newClient assembles a session client backed by the token file so
// credentials survive between invocations.
func newClient() (*dashauth.Client, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}

	builder := dashauth.New().
		WithBaseURL(cfg.BaseURL).
		WithRequestTimeout(cfg.RequestTimeout)

	if cfg.TokenFile != "" {
		builder = builder.WithStore(tokenstore.NewFile(cfg.TokenFile))
	}

	return builder.Build()
}
