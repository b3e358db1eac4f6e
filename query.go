package querybench

import "fmt"

// ModeKind identifies how the rows produced by a query are consumed.
type ModeKind int

const (
	// ModeCollect materializes the complete result set in memory.
	ModeCollect ModeKind = iota
	// ModeDiscard consumes every row and drops it immediately.
	ModeDiscard
	// ModePersist streams the result set to durable storage.
	ModePersist
)

func (k ModeKind) String() string {
	switch k {
	case ModeCollect:
		return "collect"
	case ModeDiscard:
		return "discard"
	case ModePersist:
		return "persist"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ExecutionMode is the consumption strategy for a query's output.
// Location is set only for ModePersist.
type ExecutionMode struct {
	Kind     ModeKind
	Location string
}

var (
	CollectAll  = ExecutionMode{Kind: ModeCollect}
	DiscardEach = ExecutionMode{Kind: ModeDiscard}
)

// PersistTo consumes the output by writing it durably under location.
// The location must be non-empty; Run rejects the query otherwise.
func PersistTo(location string) ExecutionMode {
	return ExecutionMode{Kind: ModePersist, Location: location}
}

func (m ExecutionMode) String() string {
	if m.Kind == ModePersist {
		return fmt.Sprintf("%v(%v)", m.Kind, m.Location)
	}
	return m.Kind.String()
}

// Query describes one named query to benchmark. The Text is opaque here and
// passed verbatim to the engine's compiler. Name must be non-empty and unique
// within a run: it keys result rows and names persisted output files.
type Query struct {
	Name        string
	Text        string
	Description string
	Mode        ExecutionMode
}
