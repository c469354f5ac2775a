package compose

import (
	"fmt"
	"strings"

	"pulsefeed/tui/common"
)

// View renders the comment composer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("✦ PulseFeed"))
	b.WriteString("  Comment on @" + m.author + "\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")
	b.WriteString(common.StatusBarStyle.Render(
		fmt.Sprintf("  ctrl+d: send • esc: cancel • %d/500 chars",
			len(m.textarea.Value())),
	))
	return b.String()
}
