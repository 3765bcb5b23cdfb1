// cmd/allocate.go
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdinterpret/kdinterpret/config"
	"github.com/kdinterpret/kdinterpret/internal/allocator"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Compute the MAP multinomial allocation over a scenario's probability vector",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := config.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		if cfg.Allocate == nil {
			logrus.Fatal("scenario has no allocate section")
		}
		logrus.Infof("allocating n=%v over %d probabilities", cfg.Allocate.N, len(cfg.Allocate.Probabilities))

		f, err := allocator.ComputeBestSample(cfg.Allocate.N, cfg.Allocate.Probabilities)
		if err != nil {
			logrus.Fatalf("allocation failed: %v", err)
		}
		for i, v := range f {
			fmt.Printf("%d\t%.6f\n", i, v)
		}
	},
}
