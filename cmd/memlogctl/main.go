// Command memlogctl is an operator-facing front end for the memorylog
// library: a demo/benchmark harness and an offline dump-file scanner.
// None of this package is on any write path; it is the one place in
// this module that does normal application plumbing — flags, config
// files, structured logs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "memlogctl",
	Short: "Operator tooling for the memorylog in-process log buffer",
	Long: `memlogctl drives the memorylog library from the outside: it can run a
demo workload against a freshly initialized log, scan a dump file produced
by one, or benchmark the chunk ring in isolation.

None of what this tool does runs on, or is reachable from, the write path
of the library it drives.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.memlogctl.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(benchCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".memlogctl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("MEMLOGCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func initLogger() error {
	level := zap.InfoLevel
	_ = level.UnmarshalText([]byte(viper.GetString("log-level")))

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
