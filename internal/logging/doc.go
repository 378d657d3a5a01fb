// Package logging builds the zap loggers used across the app: a console logger
// for diagnostics and the plain-text status log that records every status
// message shown to the user.
package logging
