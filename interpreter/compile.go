package interpreter

import (
	"errors"

	"github.com/kdinterpret/kdinterpret/classifier"
	"github.com/kdinterpret/kdinterpret/internal/shapley"
)

// ErrAttributeNameMismatch is returned when attributeNames or
// defaultSourceIndexes does not have one entry per compiled attribute: one
// per classifier.DataGridStatsAt entry, or one per sparse value for a
// classifier.DataGridStatsBlockAt entry.
var ErrAttributeNameMismatch = errors.New("interpreter: attribute name/default count mismatch")

// Compile builds an Interpreter over every attribute grid cls exposes:
// for each entry of cls.DataGridStatsAt/DataGridStatsBlockAt it exports the grid,
// builds its Shapley table, and records the attribute's part labels and
// default source cell index.
//
// attributeNames and defaultSourceIndexes must each have one entry per
// compiled attribute in DataGridStatsAt/DataGridStatsBlockAt order,
// flattening a sparse block's ValueNumber attributes in local-value order.
// cls has no attribute-name accessor of its own (the external interface
// for Classifier does not expose one); the host supplies both
// alongside cls, typically from its own scenario configuration.
func Compile(cls classifier.Classifier, attributeNames []string, defaultSourceIndexes []int) (*Interpreter, error) {
	targetValueCount := cls.TargetValueCount()
	var attrs []AttributeGrid
	nameIdx := 0

	for a := 0; a < cls.DataGridStatsCount(); a++ {
		if cls.IsDataGridStatsAt(a) {
			stats := cls.DataGridStatsAt(a)
			grid, export, err := exportGrid(cls, stats, a, targetValueCount)
			if err != nil {
				return nil, err
			}
			table, err := shapley.Build(grid, cls.DataGridWeightAt(a))
			if err != nil {
				return nil, err
			}
			if nameIdx >= len(attributeNames) || nameIdx >= len(defaultSourceIndexes) {
				return nil, ErrAttributeNameMismatch
			}
			attrs = append(attrs, AttributeGrid{
				Name:               attributeNames[nameIdx],
				Table:              table,
				SourcePartLabels:   export.SourcePartLabels,
				PairedPartLabels:   export.PairedPartLabels,
				DefaultSourceIndex: defaultSourceIndexes[nameIdx],
			})
			nameIdx++
			continue
		}

		block := cls.DataGridStatsBlockAt(a)
		stats := block.DataGridBlock()
		grid, export, err := exportGrid(cls, stats, a, targetValueCount)
		if err != nil {
			return nil, err
		}
		table, err := shapley.Build(grid, cls.DataGridWeightAt(a))
		if err != nil {
			return nil, err
		}
		for v := 0; v < block.ValueNumber(); v++ {
			if nameIdx >= len(attributeNames) || nameIdx >= len(defaultSourceIndexes) {
				return nil, ErrAttributeNameMismatch
			}
			attrs = append(attrs, AttributeGrid{
				Name:               attributeNames[nameIdx],
				Table:              table,
				SourcePartLabels:   export.SourcePartLabels,
				PairedPartLabels:   export.PairedPartLabels,
				DefaultSourceIndex: defaultSourceIndexes[nameIdx],
			})
			nameIdx++
		}
	}

	if nameIdx != len(attributeNames) || nameIdx != len(defaultSourceIndexes) {
		return nil, ErrAttributeNameMismatch
	}
	return New(attrs, targetValueCount)
}

// exportGrid reads stats' compile-time shape and the classifier's
// per-target-value marginals into a shapley.GridInput for attribute a.
func exportGrid(cls classifier.Classifier, stats classifier.DataGridStats, a, targetValueCount int) (shapley.GridInput, classifier.DataGridStatsExport, error) {
	var export classifier.DataGridStatsExport
	stats.ExportDataGridStats(&export)

	sourceSize := export.SourcePartCount
	if export.PairedPartCount > 0 {
		sourceSize *= export.PairedPartCount
	}
	targetPartCount := export.TargetPartCount

	sourcePartFreq := make([]float64, sourceSize)
	for s := 0; s < sourceSize; s++ {
		for t := 0; t < targetPartCount; t++ {
			sourcePartFreq[s] += export.CellFrequencies[s+t*sourceSize]
		}
	}

	total := 0.0
	for _, f := range export.TargetFrequencies {
		total += f
	}

	targetValueFreq := make([]float64, targetValueCount)
	targetValueToPart := make([]int, targetValueCount)
	for t := 0; t < targetValueCount; t++ {
		targetValueFreq[t] = cls.DataGridSetTargetFrequencyAt(t)
		targetValueToPart[t] = cls.DataGridSetTargetCellIndexAt(a, t)
	}

	grid := shapley.GridInput{
		SourcePartFrequencies:  sourcePartFreq,
		TargetPartFrequencies:  export.TargetFrequencies,
		CellFrequencies:        export.CellFrequencies,
		TotalFrequency:         total,
		TargetValueFrequencies: targetValueFreq,
		TargetValueToPart:      targetValueToPart,
		PartsAreSingletons:     targetPartCount == targetValueCount,
	}
	return grid, export, nil
}
