// Package viz renders force field reports for the terminal.
//
// Styles are lipgloss definitions shared by the CLI commands; plots of
// polynomial laws are drawn with asciigraph.
package viz
