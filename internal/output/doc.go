// Package output holds the terminal surface of scaffctl.
//
// Human-readable messages go to stderr through a charmbracelet/log logger
// styled with lipgloss. With --json the text channel is silenced and each
// command writes a single {status,data,error} envelope to stdout instead.
// NO_COLOR disables colours and emoji prefixes; -v enables debug messages,
// which includes the per-template stage transitions of the generator.
package output
