// Package log provides the harvester's slog setup.
//
// The archive is an ASP.NET WebForms site: every request replays a large
// base64 __VIEWSTATE blob plus session cookies. RedactingHandler keeps those
// out of the log output, and shortens any other oversized string value, so
// that a debug log of a full walk stays readable.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, slog.LevelInfo)
//	logger.Debug("posting form", "__VIEWSTATE", state) // __VIEWSTATE=***REDACTED***
//	slog.SetDefault(logger)
package log
