// Package cli implements the ytringtones command line. Without a subcommand
// the root command starts the desktop UI.
package cli
