package chess

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	resetWidth  = 200
	resetHeight = 40
	resetRadius = 5
)

func RenderResetSVG(label string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `%s width="%d" height="%d">`, svgOpen, resetWidth, resetHeight)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" style="fill: rgb(255, 33, 33);" ry="5" rx="5"/>`, resetWidth, resetHeight)
	fmt.Fprintf(&buf, `<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" style="font:bold 15px sans-serif;fill:white;">%s</text>`, escapeText(label))
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

func RenderResetPNG(ctx context.Context, label string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	img := image.NewRGBA(image.Rect(0, 0, resetWidth, resetHeight))
	drawRoundedPanel(img, img.Bounds(), resetRadius, resetRed)
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	drawCenteredString(drawer, img.Bounds(), label, textWhite)
	return encodePNG(img)
}
