package querybench

import (
	"context"
	"fmt"
)

// ResultArchive receives measured benchmark results. *Archive implements it;
// tests substitute fakes.
type ResultArchive interface {
	// Recorded lists the names of queries that already have results.
	Recorded() (map[string]bool, error)
	// AddResult stores one result under the given attempt number.
	AddResult(attempt int, result *BenchmarkResult) error
}

// Suite runs a list of queries against one engine, each with optional warmup
// passes and repeated measured attempts. The engine handle is owned by the
// suite for the duration of Run; run concurrent suites on separate handles.
type Suite struct {
	Warmup           int
	Attempts         int
	IncludeBreakdown bool
	// OutputLocation, when non-empty, persists every query's result set there
	// as an untimed side effect of each run.
	OutputLocation string
	// Archive, when non-nil, receives every measured attempt's result;
	// queries already recorded in it are skipped. Warmup passes are never
	// archived.
	Archive ResultArchive
}

// SuiteFromEnv builds a Suite from BENCHMARK_* environment variables.
func SuiteFromEnv() Suite {
	return Suite{
		Warmup:           IntEnv("BENCHMARK_WARMUP", 0),
		Attempts:         IntEnv("BENCHMARK_ATTEMPTS", 1),
		IncludeBreakdown: BoolEnv("BENCHMARK_BREAKDOWN", false),
		OutputLocation:   StringEnv("BENCHMARK_OUTPUT", ""),
	}
}

// Run benchmarks every query in order and returns the measured results, one
// per attempt per query. The first failing run aborts the suite.
func (s *Suite) Run(ctx context.Context, engine Engine, queries []Query) ([]*BenchmarkResult, error) {
	seen := make(map[string]bool)
	for _, query := range queries {
		if query.Name == "" {
			return nil, fmt.Errorf("suite contains a query with an empty name")
		}
		if seen[query.Name] {
			return nil, fmt.Errorf("suite contains duplicate query name %v", query.Name)
		}
		seen[query.Name] = true
	}

	recorded := make(map[string]bool)
	if s.Archive != nil {
		var err error
		recorded, err = s.Archive.Recorded()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch recorded queries: %w", err)
		}
	}

	attempts := s.Attempts
	if attempts < 1 {
		attempts = 1
	}

	results := make([]*BenchmarkResult, 0, attempts*len(queries))
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if recorded[query.Name] {
			Logger.Infof("skipping query %v: already recorded", query.Name)
			continue
		}

		request := BenchmarkRequest{
			Query:            query,
			IncludeBreakdown: s.IncludeBreakdown,
			Engine:           engine,
		}
		for i := 0; i < s.Warmup; i++ {
			Logger.Infof("running warmup #%v/%v of query %v", i+1, s.Warmup, query.Name)
			if _, err := Run(request, ""); err != nil {
				return nil, fmt.Errorf("warmup #%v of query %v failed: %w", i+1, query.Name, err)
			}
		}
		for i := 0; i < attempts; i++ {
			Logger.Infof("running attempt #%v/%v of query %v in mode %v", i+1, attempts, query.Name, query.Mode)
			result, err := Run(request, s.OutputLocation)
			if err != nil {
				return nil, fmt.Errorf("attempt #%v of query %v failed: %w", i+1, query.Name, err)
			}
			Logger.Infof(
				"measured query %v: parse=%.3fms analyze=%.3fms optimize=%.3fms plan=%.3fms execute=%.3fms operators=%v",
				result.Name, result.ParsingMs, result.AnalysisMs, result.OptimizationMs, result.PlanningMs,
				result.ExecutionMs, len(result.Breakdown),
			)
			if s.Archive != nil {
				if err := s.Archive.AddResult(i, result); err != nil {
					return nil, fmt.Errorf("failed to archive result of query %v: %w", query.Name, err)
				}
			}
			results = append(results, result)
		}
	}
	return results, nil
}
