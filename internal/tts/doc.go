// Package tts is a thin adapter over the external speech synthesis HTTP
// service. It performs one request per text chunk and carries no retry or
// batching logic of its own; failure policy belongs to the calling stage.
package tts
