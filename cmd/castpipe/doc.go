// Command castpipe drives written content through translation, speech
// synthesis, HLS packaging, and remote upload. It is a batch pipeline: each
// invocation processes one content id (or everything pending) and prints a
// per-stage, per-language run summary.
package main
