// cmd/interpret.go
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdinterpret/kdinterpret/config"
	"github.com/kdinterpret/kdinterpret/interpreter"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Compile a scenario's classifier and print ranked Shapley contributions for its bound observation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := config.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		if cfg.Classifier == nil {
			logrus.Fatal("scenario has no classifier section")
		}

		cls, err := config.NewScenarioClassifier(cfg.Classifier)
		if err != nil {
			logrus.Fatalf("compiling classifier: %v", err)
		}

		ip, err := interpreter.Compile(cls, cls.AttributeNames(), cls.DefaultSourceIndexes())
		if err != nil {
			logrus.Fatalf("compiling interpreter: %v", err)
		}

		obs := config.MapObservation(cfg.Observation)
		cls.Bind(obs)
		ip.BindObservation(obs)

		predicted := cls.ComputeTargetValue()
		targetRank := cls.TargetValueRank(predicted)
		logrus.Infof("predicted target value: %s (p=%.6f)", predicted, cls.ComputeTargetProbAt(predicted))

		attrCount := cls.DataGridStatsCount()
		for rank := 0; rank < attrCount; rank++ {
			fmt.Printf("%d\t%s\t%s\t%.6f\n",
				rank+1,
				ip.GetRankedContributionAttributeAt(targetRank, rank),
				ip.GetRankedContributionPartAt(targetRank, rank),
				ip.GetRankedContributionValueAt(targetRank, rank))
		}
	},
}
