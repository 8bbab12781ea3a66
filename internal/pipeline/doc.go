// Package pipeline drives content through the publication state machine.
// The orchestrator walks the status table one stage at a time, invokes the
// stage service registered for the current status, and advances the source
// row only when at least one language completed the stage. Stage-to-stage
// progress is sequential: the next stage never starts before the previous
// status update is durably persisted.
package pipeline
