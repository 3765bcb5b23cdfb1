// Package classifier declares the host contract the interpreter and
// reinforcer packages are compiled against: a small, explicit view over an
// already-trained naive-Bayes-family classifier and its data grids, rather
// than a derivation-rule inheritance tree. kdinterpret never trains a
// classifier or derives features; it only reads from one through this
// interface.
package classifier

// Classifier is the read-only view the interpreter and reinforcer compile
// and run against. An implementation usually wraps a host application's own
// trained model; kdinterpret ships no implementation of its own.
type Classifier interface {
	// TargetValueCount returns the number of distinct target class symbols.
	TargetValueCount() int
	// TargetValueAt returns the class symbol at rank i, 0 <= i < TargetValueCount().
	TargetValueAt(i int) string
	// TargetValueRank returns the rank of a class symbol, or -1 if unknown.
	TargetValueRank(symbol string) int

	// DataGridStatsCount returns the number of compiled attribute grids,
	// counting a sparse block as a single entry.
	DataGridStatsCount() int
	// IsDataGridStatsAt reports whether entry i is a plain DataGridStats
	// (true) or a DataGridStatsBlock covering several sparse attributes
	// (false).
	IsDataGridStatsAt(i int) bool
	// DataGridStatsAt returns entry i's DataGridStats. Valid only when
	// IsDataGridStatsAt(i) is true.
	DataGridStatsAt(i int) DataGridStats
	// DataGridStatsBlockAt returns entry i's DataGridStatsBlock. Valid only
	// when IsDataGridStatsAt(i) is false.
	DataGridStatsBlockAt(i int) DataGridStatsBlock

	// DataGridSetTargetFrequencyAt returns the observed frequency of
	// target value t across the whole training set.
	DataGridSetTargetFrequencyAt(t int) float64
	// DataGridWeightAt returns the attribute weight used to scale that
	// attribute's Shapley values.
	DataGridWeightAt(a int) float64
	// DataGridSetTargetCellIndexAt returns the target-part cell index
	// attribute a's grid assigns to target value t.
	DataGridSetTargetCellIndexAt(a, t int) int

	// ComputeTargetValue predicts the most probable target symbol for the
	// currently bound observation.
	ComputeTargetValue() string
	// ComputeTargetProbAt returns the predicted probability of a target
	// symbol for the currently bound observation.
	ComputeTargetProbAt(symbol string) float64

	// TargetLogProbNumeratorTerms returns the per-target-value log
	// numerator terms (one per target value) the reinforcer perturbs and
	// renormalizes.
	TargetLogProbNumeratorTerms() []float64
	// ComputeTargetProbsFromNumeratorTerms normalizes numerator log-terms
	// into a probability vector written to out, which must have the same
	// length as in.
	ComputeTargetProbsFromNumeratorTerms(in []float64, out []float64)
}

// DataGridStats is the per-attribute (or per-attribute-pair) compiled grid
// an interpreter reads source-conditional log-probabilities from.
type DataGridStats interface {
	// CellIndex returns the source cell index of the currently bound
	// observation.
	CellIndex() int
	// DataGridSourceConditionalLogProbAt returns ln P(srcPart | tgtPart).
	DataGridSourceConditionalLogProbAt(srcPart, tgtPart int) float64
	// ExportDataGridStats copies the compile-time grid description
	// (frequencies, marginals, part labels) into out.
	ExportDataGridStats(out *DataGridStatsExport)
}

// DataGridStatsBlock is a sparse block covering several attributes that
// share one underlying grid, addressed by a 1-based local value index.
type DataGridStatsBlock interface {
	// ValueNumber returns how many attributes this block covers.
	ValueNumber() int
	// CellIndexAt returns the 1-based source cell index of local value i
	// in the currently bound observation; callers shift to 0-based.
	CellIndexAt(i int) int
	// DataGridIndexAt maps local value i to its owning DataGridStats index
	// within the classifier's DataGridStatsAt/DataGridStatsBlockAt space.
	DataGridIndexAt(i int) int
	// DataGridBlock returns the underlying shared DataGridStats.
	DataGridBlock() DataGridStats
}

// DataGridStatsExport is the compile-time shape of one attribute's grid:
// per-cell frequencies, source and target marginals, and the labels needed
// to reconstruct a human-readable part name.
type DataGridStatsExport struct {
	// SourcePartCount is the number of source parts (univariate grid) or
	// the first dimension's size (bivariate grid).
	SourcePartCount int
	// PairedPartCount is > 0 only for a bivariate (grouped-attribute)
	// grid: the second dimension's size.
	PairedPartCount int
	// TargetPartCount is the number of target parts: equal to the target
	// value count unless target values are grouped, in which case smaller.
	TargetPartCount int
	// CellFrequencies is the frequency of each (source, target) cell,
	// flattened with the source part varying fastest (index
	// source + target*sourceSize, where sourceSize is the number of
	// flattened source cells); for a
	// bivariate grid, source part is itself the flattened pair index
	// (srcIndex + pairIndex*SourcePartCount).
	CellFrequencies []float64
	// TargetFrequencies is the frequency of each target part.
	TargetFrequencies []float64
	// SourcePartLabels names each part of the source dimension (interval
	// or value-group label): length SourcePartCount.
	SourcePartLabels []string
	// PairedPartLabels names each part of the paired dimension; non-empty
	// only for a bivariate grid (length PairedPartCount). The interpreter
	// decodes a flattened source cell index c as
	// (SourcePartLabels[c mod SourcePartCount], PairedPartLabels[c div SourcePartCount])
	// rather than receiving an already-joined label from the host.
	PairedPartLabels []string
}

// AttributeBlockDefault is the sparse-attribute-block default-value lookup
// contract: when an observation's sparse key is absent, the
// attribute's default continuous or symbolic value must still be mapped
// through the grid's univariate partition to a source-part index.
type AttributeBlockDefault interface {
	// ContinuousDefaultValue returns the default numeric value for a
	// continuous sparse attribute, or panics if the attribute is
	// symbolic.
	ContinuousDefaultValue() float64
	// SymbolDefaultValue returns the default symbol for a symbolic
	// sparse attribute, or panics if the attribute is continuous.
	SymbolDefaultValue() string
	// IsContinuous reports which of the two accessors above is valid.
	IsContinuous() bool
}

// Observation is the per-record value an interpreter or reinforcer binds
// to before reading contributions: a lookup from attribute name to the
// already-partitioned source-part index (or sparse-block local value),
// supplied by the host application outside this package.
type Observation interface {
	// CellIndexForAttribute returns the source cell index of attr in this
	// observation, as already resolved by the host's own data-grid
	// partitioning logic. ok is false when attr is unknown to this
	// observation and the caller should fall back to the attribute's
	// compiled default cell index.
	CellIndexForAttribute(attr string) (index int, ok bool)
}
