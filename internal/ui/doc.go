// Package ui provides the color themes shared by the console report and the
// dashboard. Console output uses ANSI escape codes from the active Theme; the
// dashboard uses the lipgloss colors of the matching TUITheme.
package ui
