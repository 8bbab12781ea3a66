// Package upload pushes per-language artifacts to remote object storage via
// an external sync tool. The audio variant syncs a language's HLS directory
// and records the public playback URL; the snapshot variant serializes the
// content row to JSON and copies it next to the streaming artifacts.
package upload
