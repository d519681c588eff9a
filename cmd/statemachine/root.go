package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sm "github.com/muxa/esphome-state-machine"
	"github.com/muxa/esphome-state-machine/config"
	"github.com/muxa/esphome-state-machine/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "statemachine",
	Short:         "Validate, inspect and run state machine definitions",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	cobra.CheckErr(viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")))
}

// initConfig reads in the settings file and STATEMACHINE_* environment variables.
func initConfig() {
	viper.SetEnvPrefix("statemachine")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	cobra.CheckErr(viper.ReadInConfig())
}

// newLogger builds the logger from the resolved settings and installs it as
// the package default for reactions created without one.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	logger := logging.New(
		logging.WithLevel(level),
		logging.WithFormat(logging.Format(viper.GetString("log.format"))),
		logging.WithOutput(cmd.ErrOrStderr()),
	)
	sm.Logger = logger

	return logger, nil
}

func loadDefinition(path string) (*config.Definition, error) {
	def, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}
