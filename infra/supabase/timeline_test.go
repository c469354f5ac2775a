package supabase

import (
	"strings"
	"testing"

	"pulsefeed/domain"
)

func TestSanitizeForTerminal_RemovesEscapesAndControls(t *testing.T) {
	in := "ok\x1b[31mred\x1b[0m\x1b]8;;http://x\x07bad\x01\x02"
	got := sanitizeForTerminal(in)
	if strings.Contains(got, "\x1b") {
		t.Fatalf("expected ansi removed: %q", got)
	}
	if strings.ContainsRune(got, '\x01') || strings.ContainsRune(got, '\x02') {
		t.Fatalf("expected controls removed: %q", got)
	}
	if !strings.Contains(got, "ok") || !strings.Contains(got, "red") {
		t.Fatalf("expected plain text preserved: %q", got)
	}
}

func TestSanitizeForTerminal_KeepsNewlinesAndTabs(t *testing.T) {
	in := "line1\nline2\tend\x7f"
	got := sanitizeForTerminal(in)
	if got != "line1\nline2\tend" {
		t.Fatalf("unexpected sanitized content: %q", got)
	}
}

func TestLikeTableAndColumnNaming(t *testing.T) {
	tests := []struct {
		kind   domain.SubjectKind
		table  string
		column string
	}{
		{domain.KindPost, "post_likes", "post_id"},
		{domain.KindComment, "comment_likes", "comment_id"},
	}
	for _, tc := range tests {
		if likeTable(tc.kind) != tc.table || subjectColumn(tc.kind) != tc.column {
			t.Fatalf("unexpected naming for %s: %s/%s", tc.kind, likeTable(tc.kind), subjectColumn(tc.kind))
		}
	}
}
