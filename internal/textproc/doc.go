// Package textproc prepares written content for speech synthesis: stripping
// presentational markup down to spoken text, and splitting long text into
// synthesis-safe byte-bounded chunks whose order must be preserved for audio
// reassembly.
package textproc
