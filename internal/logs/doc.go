// Package logs reads server log files for the CLI: the last N lines of a
// file and complete lines appended after a byte offset. Follow mode polls
// until the caller's context ends.
package logs
