// Package logging wraps log/slog with castpipe's structured logging
// conventions: typed attribute helpers, standardized field names, and
// console/json logger construction from application config.
package logging
