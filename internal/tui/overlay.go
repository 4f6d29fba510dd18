package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelpOverlay renders the key help centered over the dashboard.
func (m Model) renderHelpOverlay() string {
	w := min(60, max(m.width-4, 20))
	box := overlayStyle.Width(w).Render(buildHelpContent(m.keymap))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func buildHelpContent(k KeyMap) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SQUAREFREE DENSITY MONITOR - HELP"))
	b.WriteString("\n\n")
	for _, binding := range []key.Binding{k.Pause, k.Reset, k.Up, k.Down, k.PageUp, k.PageDown, k.Help, k.Quit} {
		b.WriteString(formatHelpLine(binding))
	}
	b.WriteString("\n")
	b.WriteString(footerDescStyle.Render("Rows are colored by |Δ| against the binomial standard error:"))
	b.WriteString("\n")
	b.WriteString(footerDescStyle.Render("green within 2σ, yellow within 4σ, red beyond."))
	b.WriteString("\n\n")
	b.WriteString(footerDescStyle.Render("Press ? to close this help"))
	return b.String()
}

func formatHelpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %s  %s\n",
		footerKeyStyle.Width(10).Render(h.Key),
		footerDescStyle.Render(h.Desc))
}
