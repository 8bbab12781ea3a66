// Package stage defines the contract between the pipeline orchestrator and
// the per-status stage services: every stage invocation yields one Result
// per language, and the per-language map — not a single boolean — is the
// unit of truth for whether the stage succeeded.
package stage

import (
	"fmt"
	"sort"

	"castpipe/internal/language"
)

// Result is the outcome of one stage for one (content, language) pair.
type Result struct {
	Success  bool
	Artifact string
	Err      string
}

// OK builds a successful result carrying an artifact reference.
func OK(artifact string) Result {
	return Result{Success: true, Artifact: artifact}
}

// Fail builds a failed result.
func Fail(err string) Result {
	return Result{Err: err}
}

// Failf builds a failed result from a format string.
func Failf(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

// ResultMap collects per-language outcomes for one stage invocation.
type ResultMap map[language.Code]Result

// Successes counts languages that completed the stage.
func (m ResultMap) Successes() int {
	n := 0
	for _, res := range m {
		if res.Success {
			n++
		}
	}
	return n
}

// AnySuccess reports whether at least one language completed the stage,
// which is the threshold the orchestrator uses to advance status.
func (m ResultMap) AnySuccess() bool {
	return m.Successes() > 0
}

// Languages returns the map's keys in stable order for deterministic
// logging and summaries.
func (m ResultMap) Languages() []language.Code {
	codes := make([]language.Code, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
