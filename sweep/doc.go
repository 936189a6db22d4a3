// Package sweep explores branch-predictor configuration spaces by running the
// external simulator over many (predictor, configuration, trace) combinations
// and aggregating the results.
//
// # Reading Guide
//
// Start with these files:
//   - plan.go: expands predictor families and traces into experiments
//   - run.go: the comprehensive sweep (plan, dispatch, persist, summarize)
//   - training.go: the training-list variant (default configurations, resumable run logs)
//
// # Architecture
//
// The engine is split into sub-packages, each owning one stage:
//   - sweep/space/: parameter spaces, the memory cost model and configuration generation
//   - sweep/traces/: trace discovery under a category-organized directory
//   - sweep/dispatch/: the bounded worker pool that invokes the simulator
//   - sweep/simout/: the simulator output parser
//   - sweep/results/: the result record and the flat files a sweep persists
//   - sweep/aggregate/: tallies, best configurations and cross-predictor comparisons
//
// Individual experiment failures never abort a sweep; they are recorded as
// statuses. Only failures to write the final artifacts are returned as errors.
package sweep
