package feed

import (
	"fmt"
	"strings"

	"pulsefeed/tui/common"
)

// View renders the feed or, when open, the post detail.
func (m Model) View() string {
	if m.showDetail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("✦ PulseFeed"))
	b.WriteString(common.TaglineStyle.Render("<your people, in the terminal>"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s Loading your feed...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(common.MetadataStyle.Render("Press r to retry."))
		b.WriteString("\n")
	case len(m.posts) == 0:
		b.WriteString(common.MetadataStyle.Render("Nothing here yet. Press r to refresh."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderFeedList())
	}

	b.WriteString("\n")
	if m.loadingMore {
		b.WriteString(fmt.Sprintf("%s Loading older posts...\n", m.spinner.View()))
	}
	if m.notice != "" {
		b.WriteString(common.MetadataStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.helpView())
	return b.String()
}

// renderFeedList renders the cards that fit the current viewport, starting
// from the scroll window.
func (m Model) renderFeedList() string {
	cardWidth, bodyWidth := m.feedCardWidths()
	spans := m.feedSpans()
	viewTop := m.scrollLine
	viewBottom := viewTop + m.feedViewportHeight() - 1

	var b strings.Builder
	for i := m.startIndex; i < len(m.posts); i++ {
		if spans[i].top > viewBottom {
			break
		}
		b.WriteString(m.renderFeedCard(m.posts[i], i == m.cursor, cardWidth, bodyWidth))
		b.WriteString("\n\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) helpView() string {
	return common.MetadataStyle.Render(
		"↑/↓: navigate • enter: open • l: like • c: comment • m: older • r: refresh • q: quit")
}
