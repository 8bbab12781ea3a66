// Package services defines shared utilities consumed by the pipeline stage
// services and external integrations: structured error markers plus the Wrap
// helper that keep failure classification uniform across stages.
package services
