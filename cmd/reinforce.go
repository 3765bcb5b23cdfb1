// cmd/reinforce.go
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdinterpret/kdinterpret/config"
	"github.com/kdinterpret/kdinterpret/reinforcer"
)

var reinforceCmd = &cobra.Command{
	Use:   "reinforce",
	Short: "Search a scenario's lever attributes for the single-attribute change that most improves each target value's score",
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

		var levers []reinforcer.Lever
		for _, attr := range cfg.Classifier.Attributes {
			if !attr.Lever {
				continue
			}
			a := cls.AttributeIndex(attr.Name)
			levers = append(levers, reinforcer.Lever{
				Name:               attr.Name,
				AttributeIndex:     a,
				Stats:              cls.Stats(a),
				SourcePartCount:    cls.SourcePartCount(a),
				DefaultSourceIndex: attr.DefaultSourceIndex,
			})
		}
		if len(levers) == 0 {
			logrus.Fatal("scenario has no lever attributes")
		}
		logrus.Infof("reinforcing over %d lever attributes", len(levers))

		r, err := reinforcer.New(cls, levers)
		if err != nil {
			logrus.Fatalf("compiling reinforcer: %v", err)
		}

		obs := config.MapObservation(cfg.Observation)
		cls.Bind(obs)
		r.BindObservation(obs)

		for targetRank, targetValue := range cfg.Classifier.TargetValues {
			initial := r.GetReinforcementInitialScoreAt(targetRank)
			logrus.Infof("target %s: initial score %.6f", targetValue, initial)
			for rank := range levers {
				fmt.Printf("%s\t%d\t%s\t%.6f\t%d\n",
					targetValue,
					rank+1,
					r.GetRankedReinforcementAttributeAt(targetRank, rank),
					r.GetRankedReinforcementFinalScoreAt(targetRank, rank),
					r.GetRankedReinforcementClassChangeTagAt(targetRank, rank))
			}
		}
	},
}
