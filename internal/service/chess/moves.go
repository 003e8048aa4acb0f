package chess

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	movesWidth       = 200
	movesLineHeight  = 22
	movesHeaderSpace = 48
	movesHeaderY     = 32
	movesFirstLineY  = 58
	movesTextX       = 6
	movesPanelRadius = 5
)

// GroupMoves pairs SAN tokens into numbered lines ("1. e4 e5", "2. Nf3") and
// keeps the last limit lines. Numbering stays absolute after trimming.
func GroupMoves(tokens []string, limit int) []string {
	lines := make([]string, 0, (len(tokens)+1)/2)
	for i := 0; i < len(tokens); i += 2 {
		var b strings.Builder
		b.WriteString(strconv.Itoa(i/2 + 1))
		b.WriteString(". ")
		b.WriteString(tokens[i])
		if i+1 < len(tokens) {
			b.WriteByte(' ')
			b.WriteString(tokens[i+1])
		}
		lines = append(lines, b.String())
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func movesHeight(n int) int {
	return n*movesLineHeight + movesHeaderSpace
}

// RenderMovesSVG stacks the header and one text line per move pair, sized to content.
func RenderMovesSVG(lines []string, header string) []byte {
	height := movesHeight(len(lines))
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `%s height="%d">`, svgOpen, height)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" style="fill: rgba(255,255,255);" rx="5" ry="5" />`, movesWidth, height)
	fmt.Fprintf(&buf, `<text x="%d" y="%d" style="font:bold 24px sans-serif;">%s</text>`, movesTextX, movesHeaderY, escapeText(header))
	for i, line := range lines {
		fmt.Fprintf(&buf, "\n"+`<text x="%d" y="%d" style="font:18px sans-serif;">%s</text>`, movesTextX, i*movesLineHeight+movesFirstLineY, escapeText(line))
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

func RenderMovesPNG(ctx context.Context, lines []string, header string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	height := movesHeight(len(lines))
	img := image.NewRGBA(image.Rect(0, 0, movesWidth, height))
	drawRoundedPanel(img, img.Bounds(), movesPanelRadius, panelWhite)

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(textBlack)}
	maxWidth := movesWidth - movesTextX*2

	drawer.Dot = fixed.P(movesTextX, movesHeaderY)
	drawer.DrawString(truncateWithEllipsis(face, header, maxWidth))
	for i, line := range lines {
		drawer.Dot = fixed.P(movesTextX, i*movesLineHeight+movesFirstLineY)
		drawer.DrawString(truncateWithEllipsis(face, line, maxWidth))
	}
	return encodePNG(img)
}
