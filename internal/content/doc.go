// Package content defines the pipeline's content records, the ordered status
// model that drives stage sequencing, and the SQLite-backed record store.
//
// A content id has one row per language. The source-language row is the
// single authority for pipeline status; target-language rows carry the
// artifacts and per-language status of the stage last completed for that
// language.
package content
