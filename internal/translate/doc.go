// Package translate kicks off the out-of-process translation workflow for a
// content id. The work itself happens outside this process; the stage's job
// is to dispatch one job per target language and report per-language dispatch
// outcomes. Target rows that already carry a translated body are treated as
// complete and are not re-dispatched.
package translate
