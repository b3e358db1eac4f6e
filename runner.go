package querybench

import (
	"fmt"
	"path"
	"strings"
)

// BenchmarkRequest ties one Query to the engine session it will run on.
// Build one per Run call and discard it afterwards.
type BenchmarkRequest struct {
	Query Query
	// IncludeBreakdown adds a per-operator timing pass over the physical plan
	// on top of the aggregate execution timing.
	IncludeBreakdown bool
	Engine           Engine
}

// BreakdownResult is the timing of one physical plan operator executed in
// isolation. Index is the operator's position in the plan's node order and
// is stable only within a single run.
type BreakdownResult struct {
	OperatorName   string
	OperatorDetail string
	Index          int
	ElapsedMs      float64
}

// BenchmarkResult is the structured output of one successful run.
type BenchmarkResult struct {
	Name          string
	JoinOperators []string
	Tables        []string

	ParsingMs      float64
	AnalysisMs     float64
	OptimizationMs float64
	PlanningMs     float64
	ExecutionMs    float64

	Breakdown []BreakdownResult
}

// Run benchmarks one query: it forces the engine's four compile stages in
// order timing each one, optionally times every physical operator in
// isolation, times the full execution under the query's mode, and extracts
// join operators and referenced tables from the compiled plans.
//
// outputLocation, when non-empty, additionally persists the result set there
// after the timed execution; this extra write is not part of ExecutionMs.
//
// Run is all-or-nothing: any failure comes back as *BenchmarkError carrying
// the query name and the cause, and no result is returned. Writes performed
// before the failing step are not rolled back. Failures inside the pipeline
// additionally carry one of the ErrCompile, ErrBreakdown or ErrExecute
// sentinels; request-validation failures (empty query name, missing engine,
// persist mode without a location) happen before any stage runs and carry
// none of them.
func Run(request BenchmarkRequest, outputLocation string) (*BenchmarkResult, error) {
	result, err := run(request, outputLocation)
	if err != nil {
		return nil, &BenchmarkError{Query: request.Query.Name, Err: err}
	}
	return result, nil
}

func run(request BenchmarkRequest, outputLocation string) (*BenchmarkResult, error) {
	query := request.Query
	if query.Name == "" {
		return nil, fmt.Errorf("query name must not be empty")
	}
	if request.Engine == nil {
		return nil, fmt.Errorf("benchmark request has no engine")
	}
	if query.Mode.Kind == ModePersist && query.Mode.Location == "" {
		return nil, fmt.Errorf("persist mode requires a non-empty location")
	}

	engine := request.Engine
	engine.SetJobDescription(fmt.Sprintf("benchmark query %v", query.Name))

	// The engine may compile lazily, so each stage below pays for whatever
	// upstream work forcing it triggers. Stages are timed independently, not
	// as cumulative sums.
	var logical LogicalPlan
	parsingMs, err := Measure(func() error {
		var inner error
		logical, inner = engine.Compile(query.Text)
		return inner
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse query %v: %w", ErrCompile, query.Name, err)
	}

	var analyzed AnalyzedPlan
	analysisMs, err := Measure(func() error {
		var inner error
		analyzed, inner = logical.Analyzed()
		return inner
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to analyze query %v: %w", ErrCompile, query.Name, err)
	}

	var optimized OptimizedPlan
	optimizationMs, err := Measure(func() error {
		var inner error
		optimized, inner = analyzed.Optimized()
		return inner
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to optimize query %v: %w", ErrCompile, query.Name, err)
	}

	var physical PhysicalPlan
	planningMs, err := Measure(func() error {
		var inner error
		physical, inner = optimized.Physical()
		return inner
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build physical plan for query %v: %w", ErrCompile, query.Name, err)
	}

	breakdown := make([]BreakdownResult, 0)
	if request.IncludeBreakdown {
		breakdown, err = runBreakdown(physical)
		if err != nil {
			return nil, fmt.Errorf("%w: query %v: %w", ErrBreakdown, query.Name, err)
		}
	}

	executionMs, err := Measure(func() error {
		return consume(physical, query)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run query %v in mode %v: %w", ErrExecute, query.Name, query.Mode, err)
	}

	joins := joinOperators(physical)
	tables := tableNames(logical)

	if outputLocation != "" {
		err = physical.WriteTo(path.Join(outputLocation, query.Name))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to persist output of query %v to %v: %w", ErrExecute, query.Name, outputLocation, err)
		}
	}

	return &BenchmarkResult{
		Name:           query.Name,
		JoinOperators:  joins,
		Tables:         tables,
		ParsingMs:      parsingMs,
		AnalysisMs:     analysisMs,
		OptimizationMs: optimizationMs,
		PlanningMs:     planningMs,
		ExecutionMs:    executionMs,
		Breakdown:      breakdown,
	}, nil
}

// runBreakdown executes every operator of the plan in isolation, in node
// order, and times each one. The first failing operator aborts the whole
// breakdown: partial breakdowns are never returned.
func runBreakdown(plan PhysicalPlan) ([]BreakdownResult, error) {
	nodes := plan.Nodes()
	results := make([]BreakdownResult, 0, len(nodes))
	for i, node := range nodes {
		elapsedMs, err := Measure(func() error {
			return drainNode(node)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to execute operator #%v %v: %w", i, node.Name(), err)
		}
		results = append(results, BreakdownResult{
			OperatorName:   node.Name(),
			OperatorDetail: node.Description(),
			Index:          i,
			ElapsedMs:      elapsedMs,
		})
	}
	return results, nil
}

// drainNode forces an operator's full output, copying every row defensively
// and discarding it.
func drainNode(node Node) error {
	stream, err := node.Execute()
	if err != nil {
		return err
	}
	defer stream.Close()
	for {
		row, ok, err := stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		_ = row.Clone()
	}
}

func consume(plan PhysicalPlan, query Query) error {
	switch query.Mode.Kind {
	case ModeCollect:
		_, err := plan.Collect()
		return err
	case ModeDiscard:
		return plan.Foreach(func(Row) error { return nil })
	case ModePersist:
		return plan.WriteTo(path.Join(query.Mode.Location, query.Name))
	}
	return fmt.Errorf("unknown execution mode %v", query.Mode.Kind)
}

// joinOperators collects the names of plan operators that look like joins,
// in node order, duplicates preserved.
func joinOperators(plan PhysicalPlan) []string {
	joins := make([]string, 0)
	for _, node := range plan.Nodes() {
		if strings.Contains(node.Name(), "Join") {
			joins = append(joins, node.Name())
		}
	}
	return joins
}

// tableNames collects the tables referenced by the logical plan, keeping only
// the last segment of each qualified identifier. "db1.orders" yields "orders".
func tableNames(plan LogicalPlan) []string {
	tables := make([]string, 0)
	for _, qualified := range plan.UnresolvedTables() {
		parts := strings.Split(qualified, ".")
		tables = append(tables, parts[len(parts)-1])
	}
	return tables
}
