package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pulsefeed/tui/common"
)

// detailView renders the focused post with its comment thread.
func (m Model) detailView() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("✦ PulseFeed"))
	b.WriteString(common.TaglineStyle.Render("<post>"))
	b.WriteString("\n\n")

	cardWidth, bodyWidth := m.feedCardWidths()
	if p, ok := m.detailPost(); ok {
		b.WriteString(m.renderDetailPostCard(cardWidth, bodyWidth))
		b.WriteString("\n\n")
		b.WriteString(common.AuthorStyle.Render(fmt.Sprintf("Comments (%s)", common.FormatCount(p.Comments))))
		b.WriteString("\n\n")
	} else {
		b.WriteString(common.ErrorStyle.Render("This post is gone."))
		b.WriteString("\n\n")
	}

	switch {
	case m.loadingComments:
		b.WriteString(fmt.Sprintf("%s Loading comments...\n", m.spinner.View()))
	case m.commentsErr != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.commentsErr)))
		b.WriteString("\n")
		b.WriteString(common.MetadataStyle.Render("Press r to retry."))
		b.WriteString("\n")
	case len(m.comments) == 0:
		b.WriteString(common.MetadataStyle.Render("No comments yet. Press c to add one."))
		b.WriteString("\n")
	default:
		for _, idx := range m.visibleCommentIndices() {
			b.WriteString(m.renderCommentCard(m.comments[idx], idx+1 == m.detailCursor, cardWidth, bodyWidth))
			b.WriteString("\n\n")
		}
		if end := m.detailStart + m.detailCommentSlots(); end < len(m.comments) {
			b.WriteString(common.MetadataStyle.Render(
				fmt.Sprintf("... %d more below", len(m.comments)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(common.MetadataStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(common.MetadataStyle.Render(
		"↑/↓: navigate • l: like • c: comment • r: reload • esc: back"))
	return b.String()
}

// renderDetailPostCard renders the focused post with its full content.
func (m Model) renderDetailPostCard(cardWidth, bodyWidth int) string {
	p, ok := m.detailPost()
	if !ok {
		return ""
	}
	author := common.AuthorStyle.Render("@" + p.Username)
	if p.IsOwn {
		author += common.OwnBadgeStyle.Render("(you)")
	}
	timestamp := common.TimestampStyle.Render(p.CreatedAt.Format("Jan 02 15:04"))
	body := lipgloss.NewStyle().Width(bodyWidth).Render(p.Content)

	itemContent := fmt.Sprintf("%s  %s\n%s\n%s",
		author, timestamp, common.ContentStyle.Render(body), m.renderMetaRow(p))

	style := common.UnselectedStyle
	if m.detailCursor == 0 {
		style = common.SelectedStyle
	}
	return style.Width(cardWidth).Render(itemContent)
}

// renderCommentCard renders one comment in the thread.
func (m Model) renderCommentCard(c CommentItem, selected bool, cardWidth, bodyWidth int) string {
	p := c.Post
	author := common.AuthorStyle.Render("@" + p.Username)
	if p.IsOwn {
		author += common.OwnBadgeStyle.Render("(you)")
	}

	var marker string
	switch c.Status {
	case StatusPendingCreate:
		marker = common.MetadataStyle.Render("  sending...")
	case StatusFailed:
		marker = common.ErrorStyle.Render("  failed to send")
	default:
		marker = "  " + common.TimestampStyle.Render(common.RelativeTime(p.CreatedAt, time.Now()))
	}

	body := lipgloss.NewStyle().Width(bodyWidth).Render(p.Content)
	itemContent := fmt.Sprintf("%s%s\n%s\n%s",
		author, marker, common.ContentStyle.Render(body), m.renderMetaRow(p))

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(cardWidth).Render(itemContent)
}

// detailCommentSlots estimates how many comment cards fit under the post.
func (m Model) detailCommentSlots() int {
	postLines := 6
	if _, ok := m.detailPost(); ok {
		cardWidth, bodyWidth := m.feedCardWidths()
		postLines = len(strings.Split(m.renderDetailPostCard(cardWidth, bodyWidth), "\n"))
	}
	avail := m.height - postLines - 10
	slots := avail / 6
	if slots < 1 {
		slots = 1
	}
	return slots
}

// visibleCommentIndices returns the comment indices inside the scroll window.
func (m Model) visibleCommentIndices() []int {
	if len(m.comments) == 0 {
		return nil
	}
	start := m.detailStart
	if start < 0 {
		start = 0
	}
	if start >= len(m.comments) {
		start = len(m.comments) - 1
	}
	end := min(start+m.detailCommentSlots(), len(m.comments))
	idxs := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idxs = append(idxs, i)
	}
	return idxs
}

// ensureDetailCursorVisible keeps the selected comment inside the window.
func (m *Model) ensureDetailCursorVisible() {
	if m.detailCursor <= 0 {
		m.detailStart = 0
		return
	}
	slots := m.detailCommentSlots()
	sel := m.detailCursor - 1 // comment index
	if sel < m.detailStart {
		m.detailStart = sel
	} else if sel >= m.detailStart+slots {
		m.detailStart = sel - slots + 1
	}
}
