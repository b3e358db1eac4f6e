package querybench

// Engine is the query engine session this harness measures. Implementations
// live in surrounding tooling; the harness only drives and times them.
type Engine interface {
	// SetJobDescription tags the session's current unit of work with an
	// advisory label. Purely for external observability, no effect on results.
	SetJobDescription(label string)
	// Compile turns query text into a logical plan. Engines may defer real
	// work until the plan is forced, so compilation cost is attributed to
	// whichever forcing call triggers it.
	Compile(text string) (LogicalPlan, error)
}

// LogicalPlan is the pre-analysis representation of a query.
type LogicalPlan interface {
	// Analyzed forces analysis and returns the analyzed plan.
	Analyzed() (AnalyzedPlan, error)
	// UnresolvedTables lists the qualified identifiers of tables referenced
	// by the plan, in traversal order, duplicates preserved.
	UnresolvedTables() []string
}

// AnalyzedPlan is the post-analysis representation of a query.
type AnalyzedPlan interface {
	// Optimized forces optimization and returns the optimized plan.
	Optimized() (OptimizedPlan, error)
}

// OptimizedPlan is the post-optimization representation of a query.
type OptimizedPlan interface {
	// Physical forces physical planning and returns the executable plan.
	Physical() (PhysicalPlan, error)
}

// PhysicalPlan is the executable operator tree. Nodes must return the
// operators in a stable pre-order, one per line of TreeString, and the
// ordering must not change between calls within a run.
type PhysicalPlan interface {
	Nodes() []Node
	TreeString() string
	// Collect executes the plan and materializes every output row.
	Collect() ([]Row, error)
	// Foreach executes the plan, invoking fn for every output row as it is
	// produced. A non-nil error from fn aborts the execution.
	Foreach(fn func(Row) error) error
	// WriteTo executes the plan and streams the result set to durable
	// storage at destination. The engine owns the output format and appends
	// its own file extension.
	WriteTo(destination string) error
}

// Node is a single operator of a physical plan.
type Node interface {
	Name() string
	// Description is a single-line human-readable summary of the operator.
	Description() string
	// Execute runs this operator in isolation and returns its output rows.
	Execute() (RowStream, error)
}

// RowStream yields rows one at a time. Callers must Close it when done.
type RowStream interface {
	// Next returns the next row, or ok=false when the stream is drained.
	Next() (row Row, ok bool, err error)
	Close() error
}

// Row is one output record. Values are engine-owned; use Clone before
// retaining a row past the producing call.
type Row []any

func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}
