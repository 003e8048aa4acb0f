package chess

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"github.com/park285/clickchess/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	ContentTypeSVG = "image/svg+xml"
	ContentTypePNG = "image/png"

	squareViewBox   = 45
	squareOutputPx  = 40
	moveDotRadius   = 7
	defaultPNGSize  = 80
	defaultMoveKeep = 65
)

type Format int

const (
	FormatSVG Format = iota
	FormatPNG
)

// ParseFormat maps a query value to a Format; anything but "png" is SVG.
func ParseFormat(v string) Format {
	if strings.EqualFold(strings.TrimSpace(v), "png") {
		return FormatPNG
	}
	return FormatSVG
}

// SquareView is everything needed to draw one board cell.
type SquareView struct {
	Row         int
	Col         int
	Piece       *domain.Piece
	Active      bool
	LastMove    bool
	Destination bool
}

func (v SquareView) dark() bool { return (v.Row+v.Col)%2 == 1 }

// Background applies the color rules in order: checkerboard, active square, last move.
func (v SquareView) Background() color.RGBA {
	clr := lightSquare
	if v.dark() {
		clr = darkSquare
	}
	if v.Active {
		clr = activeSquare
	}
	if v.LastMove {
		if v.dark() {
			clr = lastMoveDark
		} else {
			clr = lastMoveLight
		}
	}
	return clr
}

type Image struct {
	Data        []byte
	ContentType string
}

type BoardRenderer interface {
	Square(ctx context.Context, view SquareView, format Format) (Image, error)
	Moves(ctx context.Context, history []string, format Format) (Image, error)
	ResetButton(ctx context.Context, format Format) (Image, error)
}

type RendererOptions struct {
	SquarePNGSize int
	MoveListLimit int
	MovesHeader   string
	ResetLabel    string
}

type svgBoardRenderer struct {
	opts RendererOptions
}

func NewSVGBoardRenderer(opts RendererOptions) BoardRenderer {
	if opts.SquarePNGSize <= 0 {
		opts.SquarePNGSize = defaultPNGSize
	}
	if opts.MoveListLimit <= 0 {
		opts.MoveListLimit = defaultMoveKeep
	}
	if strings.TrimSpace(opts.MovesHeader) == "" {
		opts.MovesHeader = "Moves so far:"
	}
	if strings.TrimSpace(opts.ResetLabel) == "" {
		opts.ResetLabel = "Reset"
	}
	return &svgBoardRenderer{opts: opts}
}

func (r *svgBoardRenderer) Square(ctx context.Context, view SquareView, format Format) (Image, error) {
	if format == FormatPNG {
		data, err := RenderSquarePNG(ctx, view, r.opts.SquarePNGSize)
		return Image{Data: data, ContentType: ContentTypePNG}, err
	}
	data, err := RenderSquareSVG(view)
	return Image{Data: data, ContentType: ContentTypeSVG}, err
}

func (r *svgBoardRenderer) Moves(ctx context.Context, history []string, format Format) (Image, error) {
	lines := GroupMoves(history, r.opts.MoveListLimit)
	if format == FormatPNG {
		data, err := RenderMovesPNG(ctx, lines, r.opts.MovesHeader)
		return Image{Data: data, ContentType: ContentTypePNG}, err
	}
	return Image{Data: RenderMovesSVG(lines, r.opts.MovesHeader), ContentType: ContentTypeSVG}, nil
}

func (r *svgBoardRenderer) ResetButton(ctx context.Context, format Format) (Image, error) {
	if format == FormatPNG {
		data, err := RenderResetPNG(ctx, r.opts.ResetLabel)
		return Image{Data: data, ContentType: ContentTypePNG}, err
	}
	return Image{Data: RenderResetSVG(r.opts.ResetLabel), ContentType: ContentTypeSVG}, nil
}

var (
	lightSquare   = color.RGBA{235, 236, 208, 255}
	darkSquare    = color.RGBA{119, 149, 86, 255}
	activeSquare  = color.RGBA{247, 246, 133, 255}
	lastMoveDark  = color.RGBA{189, 203, 62, 255}
	lastMoveLight = color.RGBA{247, 246, 133, 255}
	moveDotColor  = color.NRGBA{R: 0, G: 0, B: 0, A: 26}
	panelWhite    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	resetRed      = color.NRGBA{R: 255, G: 33, B: 33, A: 255}
	textBlack     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	textWhite     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.2" baseProfile="tiny"`

// RenderSquareSVG draws background, destination dot and piece glyph, in that order.
func RenderSquareSVG(view SquareView) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `%s viewBox="0 0 %d %d" width="%d" height="%d">`, svgOpen, squareViewBox, squareViewBox, squareOutputPx, squareOutputPx)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" style="fill: %s"/>`, squareViewBox, squareViewBox, rgbString(view.Background()))
	if view.Destination {
		fmt.Fprintf(&buf, `<circle r="%d" cx="50%%" cy="50%%" style="fill: rgba(0,0,0,0.1)"/>`, moveDotRadius)
	}
	if view.Piece != nil {
		body, err := pieceSVGBody(*view.Piece)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

// RenderSquarePNG rasterises the same view at size x size pixels.
func RenderSquarePNG(ctx context.Context, view SquareView, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultPNGSize
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(view.Background()), image.Point{}, imagedraw.Src)
	if view.Destination {
		radius := size * moveDotRadius / squareViewBox
		drawDisc(img, image.Pt(size/2, size/2), radius, moveDotColor)
	}
	if view.Piece != nil {
		glyph, err := renderPieceImage(*view.Piece, size)
		if err != nil {
			return nil, err
		}
		imagedraw.Draw(img, img.Bounds(), glyph, image.Point{}, imagedraw.Over)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func rgbString(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	ellipsisWidth := drawer.MeasureString(ellipsis).Round()
	if ellipsisWidth > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}

	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}

	leftRect := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if leftRect.Dx() > 0 {
		imagedraw.Draw(img, leftRect, fill, image.Point{}, imagedraw.Over)
	}

	rightRect := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if rightRect.Dx() > 0 {
		imagedraw.Draw(img, rightRect, fill, image.Point{}, imagedraw.Over)
	}

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawDiscOpaque(img, center, radius, clr)
	}
}

// drawDiscOpaque paints without blending so panel corners don't double up.
func drawDiscOpaque(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			p := image.Pt(center.X+x, center.Y+y)
			if p.In(img.Bounds()) {
				img.Set(p.X, p.Y, clr)
			}
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	// RGBA() is alpha-premultiplied; undo it to get straight color.
	srcR := float64(sr) / float64(sa)
	srcG := float64(sg) / float64(sa)
	srcB := float64(sb) / float64(sa)

	dst := img.RGBAAt(x, y)
	dstA := float64(dst.A) / 255.0

	var dstR, dstG, dstB float64
	if dstA > 0 {
		inv := 1.0 / dstA
		dstR = float64(dst.R) / 255.0 * inv
		dstG = float64(dst.G) / 255.0 * inv
		dstB = float64(dst.B) / 255.0 * inv
	}

	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		img.SetRGBA(x, y, color.RGBA{})
		return
	}

	outR := (srcR*srcA + dstR*dstA*(1-srcA)) / outA
	outG := (srcG*srcA + dstG*dstA*(1-srcA)) / outA
	outB := (srcB*srcA + dstB*dstA*(1-srcA)) / outA

	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8(outR * outA * 255.0),
		G: floatToUint8(outG * outA * 255.0),
		B: floatToUint8(outB * outA * 255.0),
		A: floatToUint8(outA * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
