package querybench

import (
	"fmt"
	"os"
	"strings"
)

type fakeStream struct {
	rows   []Row
	pos    int
	err    error
	closed bool
}

func (s *fakeStream) Next() (Row, bool, error) {
	if s.pos < len(s.rows) {
		row := s.rows[s.pos]
		s.pos++
		return row, true, nil
	}
	if s.err != nil {
		return nil, false, s.err
	}
	return nil, false, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeNode struct {
	name       string
	detail     string
	rows       []Row
	execErr    error
	rowErr     error
	executions int
}

func (n *fakeNode) Name() string        { return n.name }
func (n *fakeNode) Description() string { return n.detail }

func (n *fakeNode) Execute() (RowStream, error) {
	n.executions++
	if n.execErr != nil {
		return nil, n.execErr
	}
	return &fakeStream{rows: n.rows, err: n.rowErr}, nil
}

type fakePlan struct {
	nodes      []*fakeNode
	rows       []Row
	collectErr error
	foreachErr error
	writeErr   error
	collects   int
	foreaches  int
	writes     []string
}

func (p *fakePlan) Nodes() []Node {
	nodes := make([]Node, 0, len(p.nodes))
	for _, node := range p.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

func (p *fakePlan) TreeString() string {
	lines := make([]string, 0, len(p.nodes))
	for _, node := range p.nodes {
		lines = append(lines, fmt.Sprintf("%v [%v]", node.name, node.detail))
	}
	return strings.Join(lines, "\n")
}

func (p *fakePlan) Collect() ([]Row, error) {
	p.collects++
	if p.collectErr != nil {
		return nil, p.collectErr
	}
	rows := make([]Row, 0, len(p.rows))
	for _, row := range p.rows {
		rows = append(rows, row.Clone())
	}
	return rows, nil
}

func (p *fakePlan) Foreach(fn func(Row) error) error {
	p.foreaches++
	if p.foreachErr != nil {
		return p.foreachErr
	}
	for _, row := range p.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (p *fakePlan) WriteTo(destination string) error {
	if p.writeErr != nil {
		return p.writeErr
	}
	lines := make([]string, 0, len(p.rows))
	for _, row := range p.rows {
		lines = append(lines, fmt.Sprintf("%v", row))
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(destination+".csv", []byte(content), 0o644); err != nil {
		return err
	}
	p.writes = append(p.writes, destination)
	return nil
}

type fakeOptimized struct {
	plan        *fakePlan
	physicalErr error
}

func (o *fakeOptimized) Physical() (PhysicalPlan, error) {
	if o.physicalErr != nil {
		return nil, o.physicalErr
	}
	return o.plan, nil
}

type fakeAnalyzed struct {
	optimized   *fakeOptimized
	optimizeErr error
}

func (a *fakeAnalyzed) Optimized() (OptimizedPlan, error) {
	if a.optimizeErr != nil {
		return nil, a.optimizeErr
	}
	return a.optimized, nil
}

type fakeLogical struct {
	tables     []string
	analyzed   *fakeAnalyzed
	analyzeErr error
}

func (l *fakeLogical) Analyzed() (AnalyzedPlan, error) {
	if l.analyzeErr != nil {
		return nil, l.analyzeErr
	}
	return l.analyzed, nil
}

func (l *fakeLogical) UnresolvedTables() []string { return l.tables }

type fakeEngine struct {
	logical    *fakeLogical
	compileErr error
	compiles   int
	jobLabels  []string
}

func (e *fakeEngine) SetJobDescription(label string) {
	e.jobLabels = append(e.jobLabels, label)
}

func (e *fakeEngine) Compile(text string) (LogicalPlan, error) {
	e.compiles++
	if e.compileErr != nil {
		return nil, e.compileErr
	}
	return e.logical, nil
}

// newFakeEngine wires a full compile pipeline ending in plan, referencing the
// given qualified table identifiers.
func newFakeEngine(plan *fakePlan, tables ...string) *fakeEngine {
	return &fakeEngine{
		logical: &fakeLogical{
			tables:   tables,
			analyzed: &fakeAnalyzed{optimized: &fakeOptimized{plan: plan}},
		},
	}
}
