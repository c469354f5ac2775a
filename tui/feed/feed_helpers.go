package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pulsefeed/domain"
	"pulsefeed/tui/common"
)

func (m Model) lastFeedID() string {
	if len(m.posts) == 0 {
		return ""
	}
	return m.posts[len(m.posts)-1].ID
}

// feedItemSpan is the line range a card occupies in the virtual feed.
type feedItemSpan struct {
	idx    int
	top    int
	bottom int
}

// feedSpans lays out every card's line span, spacer lines included.
func (m Model) feedSpans() []feedItemSpan {
	if len(m.posts) == 0 {
		return nil
	}
	cardWidth, bodyWidth := m.feedCardWidths()
	spans := make([]feedItemSpan, 0, len(m.posts))
	linePos := 0
	for i := range m.posts {
		lines := m.feedItemRenderedLines(m.posts[i], i == m.cursor, cardWidth, bodyWidth)
		spans = append(spans, feedItemSpan{
			idx:    i,
			top:    linePos,
			bottom: linePos + lines - 1,
		})
		linePos += lines + 1 // spacer between cards
	}
	return spans
}

// feedItemRenderedLines measures a card by rendering it the same way the
// view does.
func (m Model) feedItemRenderedLines(p domain.Post, selected bool, cardWidth, bodyWidth int) int {
	rendered := m.renderFeedCard(p, selected, cardWidth, bodyWidth)
	return len(strings.Split(rendered, "\n"))
}

func (m Model) feedCardWidths() (cardWidth, bodyWidth int) {
	cardWidth = m.width - 6
	if cardWidth < 44 {
		cardWidth = 44
	}
	if cardWidth > 78 {
		cardWidth = 78
	}
	bodyWidth = max(cardWidth-6, 20)
	return cardWidth, bodyWidth
}

func (m Model) feedViewportHeight() int {
	h := m.height - m.feedChromeLines()
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) feedChromeLines() int {
	lineCount := func(s string) int {
		if s == "" {
			return 0
		}
		return strings.Count(s, "\n") + 1
	}
	header := common.AppTitleStyle.Render("✦ PulseFeed") + common.TaglineStyle.Render("<your people, in the terminal>")
	top := lineCount(header) + 1 // blank line under header

	bottom := 1 // spacer before status/help block
	if len(m.posts) > 0 {
		bottom += 2 // reserved rows for loader and notice
	}
	bottom += lineCount(m.helpView())
	// App-level status bar renders outside feed.View().
	bottom += 2
	return top + bottom
}

// ensureFeedCursorVisible scrolls the card window so the cursor's card is
// fully inside the viewport.
func (m *Model) ensureFeedCursorVisible() {
	if m.showDetail || len(m.posts) == 0 {
		m.scrollLine = 0
		m.startIndex = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.posts) {
		m.cursor = len(m.posts) - 1
	}

	spans := m.feedSpans()
	viewHeight := m.feedViewportHeight()
	sel := spans[m.cursor]

	if sel.top < m.scrollLine {
		m.scrollLine = sel.top
	} else if sel.bottom > m.scrollLine+viewHeight-1 {
		m.scrollLine = sel.bottom - viewHeight + 1
	}
	if m.scrollLine < 0 {
		m.scrollLine = 0
	}
	m.startIndex = m.feedStartFromScrollLine(spans, m.scrollLine)
}

func (m Model) feedStartFromScrollLine(spans []feedItemSpan, scrollLine int) int {
	for i := range spans {
		if spans[i].bottom >= scrollLine {
			return i
		}
	}
	if len(spans) == 0 {
		return 0
	}
	return len(spans) - 1
}

// renderFeedCard renders one feed entry card.
func (m Model) renderFeedCard(p domain.Post, selected bool, cardWidth, bodyWidth int) string {
	author := common.AuthorStyle.Render("@" + p.Username)
	if p.IsOwn {
		author += common.OwnBadgeStyle.Render("(you)")
	}
	timestamp := common.TimestampStyle.Render(p.CreatedAt.Format("Jan 02 15:04"))

	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).Render("┃ ")
	preview := truncateToTwoLines(p.Content, bodyWidth)
	var bodyBuilder strings.Builder
	for _, line := range strings.Split(preview, "\n") {
		bodyBuilder.WriteString(indicator + common.ContentStyle.Render(line) + "\n")
	}
	body := strings.TrimSuffix(bodyBuilder.String(), "\n")

	itemContent := fmt.Sprintf("%s  %s\n%s\n%s",
		author, timestamp, body, m.renderMetaRow(p))

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(cardWidth).Render(itemContent)
}

// renderMetaRow renders the counter line under an entry.
func (m Model) renderMetaRow(p domain.Post) string {
	likeIcon := "♡"
	likeStyle := common.MetadataStyle
	if p.Liked {
		likeIcon = "♥"
		likeStyle = common.LikeActiveStyle
	}
	meta := fmt.Sprintf("%s %s  ◉ %s",
		likeStyle.Render(likeIcon),
		common.FormatCount(p.LikesCount),
		common.FormatCount(p.ViewsCount))
	if p.ParentID == "" {
		meta += fmt.Sprintf("  ↩ %s", common.FormatCount(p.Comments))
	}
	return common.MetadataStyle.Render(meta)
}

// truncateToTwoLines wraps and truncates text to at most 2 lines.
func truncateToTwoLines(text string, width int) string {
	if width < 12 {
		width = 12
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= 2 {
		return wrapped
	}
	return strings.Join(lines[:2], "\n") + "..."
}
