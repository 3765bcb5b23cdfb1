// cmd/enumerate.go
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdinterpret/kdinterpret/config"
	"github.com/kdinterpret/kdinterpret/internal/enumerator"
	"github.com/kdinterpret/kdinterpret/internal/freq"
)

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Enumerate the top joint cells by probability, in product or selection mode",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := config.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		sc := cfg.Enumerate
		if sc == nil {
			logrus.Fatal("scenario has no enumerate section")
		}

		switch sc.Mode {
		case "selection":
			logrus.Infof("enumerating top selection cells: n=%v k=%d", sc.N, sc.SelectionK)
			cells, err := enumerator.ComputeBestSelectionCells(sc.N, sc.SelectionK, sc.SelectionProbabilities)
			if err != nil {
				logrus.Fatalf("enumeration failed: %v", err)
			}
			printCells(cells)
		case "product", "":
			logrus.Infof("enumerating top product cells: n=%v dims=%d", sc.N, len(sc.ProbabilityVectors))
			cells, err := enumerator.ComputeBestMultipleProductCells(sc.N, sc.ProbabilityVectors)
			if err != nil {
				logrus.Fatalf("enumeration failed: %v", err)
			}
			printCells(cells)
		default:
			logrus.Fatalf("unknown enumerate mode %q", sc.Mode)
		}
	},
}

func printCells(cells []freq.IndexedFrequency) {
	for _, c := range cells {
		fmt.Printf("%v\t%.6f\t%.6f\n", c.Indices, c.Probability, c.Frequency)
	}
}
