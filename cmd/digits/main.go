// Package main contains the digits CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/Veraticus/digit-bayes/internal/common"
	"github.com/Veraticus/digit-bayes/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state shared by every command of one invocation.
type app struct {
	viper   *viper.Viper
	cfg     *config.Config
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}
	config.SetDefaults(a.viper)

	rootCmd := &cobra.Command{
		Use:   "digits",
		Short: "✍️  Naive Bayes handwritten digit classifier",
		Long: `digits trains a Naive Bayes model on 28x28 ASCII-art digit images,
evaluates it against labeled test sets and classifies new images.

Trained models can be written to plain text model files or kept in a
local registry along with their evaluation history.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/digits/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("db", "", "model registry database (default: "+config.DefaultDatabasePath+")")
	flags.Int("workers", 0, "concurrent workers for training and evaluation (0 = number of CPUs)")

	// Bind flags to viper
	_ = a.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.viper.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = a.viper.BindPFlag(config.KeyWorkers, flags.Lookup("workers"))

	// Add commands
	rootCmd.AddCommand(trainCmd(a))
	rootCmd.AddCommand(evaluateCmd(a))
	rootCmd.AddCommand(classifyCmd(a))
	rootCmd.AddCommand(modelsCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx, stop := interrupts.HandleInterrupts(context.Background())

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.Explain(err).Error()))
		if interrupts.WasInterrupted() || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if a.cfgFile != "" {
		a.viper.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		a.viper.AddConfigPath(home + "/.config/digits")
		a.viper.AddConfigPath(".")
		a.viper.SetConfigName("config")
		a.viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. DIGITS_DATABASE_PATH
	a.viper.SetEnvPrefix("DIGITS")
	a.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.viper.AutomaticEnv()

	if err := a.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg, err := config.Load(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := common.SetupLogger(level, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "digits version %s\n", version)
		},
	}
}
