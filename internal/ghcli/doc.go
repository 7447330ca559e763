// Package ghcli wraps the few gh subcommands that have no convenient API
// equivalent: repo discovery from the working directory, failed-job logs,
// auth token lookup, browser-based PR creation and raw `gh api` passthrough.
package ghcli
