// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "kdinterpret",
	Short: "MAP multinomial allocation, enumeration, and Shapley classifier interpretation toolkit",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "scenario.yaml", "Path to the YAML scenario file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.AddCommand(interpretCmd)
	rootCmd.AddCommand(reinforceCmd)
}
