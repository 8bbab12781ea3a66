// Package language defines the fixed set of languages the pipeline produces.
// Content is authored in exactly one source language; every other supported
// language is a translation target derived from it.
package language
