// Package audio implements the waveform-generation stage: strip markup,
// chunk the spoken text, synthesize each chunk, stitch the fragments into a
// single WAV file, and persist the artifact per language.
//
// Languages are processed as isolated units of work. One language failing —
// a missing row, a synthesis error, a persistence error — never aborts the
// others; the failure is captured into that language's stage result.
package audio
