package chess

import (
	"strings"
	"testing"
)

func TestGroupMoves(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		limit  int
		want   []string
	}{
		{"empty", nil, 65, []string{}},
		{"one ply", []string{"e4"}, 65, []string{"1. e4"}},
		{"three plies", []string{"e4", "e5", "Nf3"}, 65, []string{"1. e4 e5", "2. Nf3"}},
		{"trimmed keeps numbering", []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}, 2, []string{"2. Nf3 Nc6", "3. Bb5"}},
		{"no limit", []string{"d4", "d5"}, 0, []string{"1. d4 d5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupMoves(tt.tokens, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("GroupMoves = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderMovesSVGThreePlies(t *testing.T) {
	svg := string(RenderMovesSVG(GroupMoves([]string{"e4", "e5", "Nf3"}, 65), "Moves so far:"))
	if n := strings.Count(svg, `style="font:18px sans-serif;"`); n != 2 {
		t.Fatalf("expected 2 move lines, got %d: %s", n, svg)
	}
	if !strings.Contains(svg, "Moves so far:</text>") {
		t.Fatalf("missing header: %s", svg)
	}
	if !strings.Contains(svg, `height="92"`) {
		t.Fatalf("expected height 2*22+48: %s", svg)
	}
	if !strings.Contains(svg, `y="58"`) || !strings.Contains(svg, `y="80"`) {
		t.Fatalf("unexpected line offsets: %s", svg)
	}
}

func TestRenderMovesSVGEmpty(t *testing.T) {
	svg := string(RenderMovesSVG(GroupMoves(nil, 65), "Moves so far:"))
	if n := strings.Count(svg, `style="font:18px sans-serif;"`); n != 0 {
		t.Fatalf("expected no move lines, got %d", n)
	}
	if !strings.Contains(svg, "Moves so far:</text>") || !strings.Contains(svg, `height="48"`) {
		t.Fatalf("expected header-only image: %s", svg)
	}
}

func TestRenderMovesSVGEscapesText(t *testing.T) {
	svg := string(RenderMovesSVG([]string{"1. <b>&"}, "A & B"))
	if strings.Contains(svg, "<b>") || !strings.Contains(svg, "&lt;b&gt;&amp;") || !strings.Contains(svg, "A &amp; B") {
		t.Fatalf("text not escaped: %s", svg)
	}
}
