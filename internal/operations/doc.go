// Package operations runs the ETL as a sequence of named steps.
//
// A Step is one unit of work: cleaning one dataset, executing the schema
// script, building a dimension or appending a fact table. The Manager runs
// steps in order against a shared OperationState, records a StepState for each
// one and reports every step to the telemetry layer as a span, a duration and
// a success or failure count.
//
// Two failure policies exist. The cleaner runs with ContinueOnError so one bad
// workbook does not stop the other datasets; the manager then returns the
// joined step errors. The loader halts on the first failure and marks the
// remaining steps skipped, leaving whatever was already committed in place.
package operations
