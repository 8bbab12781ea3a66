// Package publish performs the final pipeline step: it verifies that each
// language's remote artifacts are in place and marks the rows published.
package publish
