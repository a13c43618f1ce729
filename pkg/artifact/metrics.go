package artifact

// Metrics are the analysis results attached to an artifact. They are
// written by the architecture analysis and read-only afterwards.
type Metrics struct {
	// LinesOfCode is the line count of a symbol's range, or the sum over
	// the parts of a folder or file.
	LinesOfCode int

	// ComponentRank is the index of the weakly connected component the
	// artifact belongs to within its scope.
	ComponentRank int

	// SCCIndex is the topological index of the artifact's strongly
	// connected component within its scope.
	SCCIndex int

	// IsInCycle is true when the artifact's SCC is a cycle.
	IsInCycle bool

	// CyclicPortion is the fraction of the parts' lines of code that belong
	// to parts in a cycle, in [0, 1].
	CyclicPortion float64

	// IncomingDependencies and OutgoingDependencies count essential edges
	// from and to siblings.
	IncomingDependencies int
	OutgoingDependencies int
}

// CycleIndex returns SCCIndex for artifacts in a cycle and -1 otherwise.
func (m Metrics) CycleIndex() int {
	if m.IsInCycle {
		return m.SCCIndex
	}
	return -1
}
