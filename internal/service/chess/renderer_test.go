package chess

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/park285/clickchess/internal/domain"
)

func TestSquareBackgroundRules(t *testing.T) {
	tests := []struct {
		name string
		view SquareView
		want string
	}{
		{"light", SquareView{Row: 0, Col: 0}, "rgb(235,236,208)"},
		{"dark", SquareView{Row: 0, Col: 1}, "rgb(119,149,86)"},
		{"active light", SquareView{Row: 2, Col: 2, Active: true}, "rgb(247,246,133)"},
		{"active dark", SquareView{Row: 2, Col: 3, Active: true}, "rgb(247,246,133)"},
		{"last move dark", SquareView{Row: 6, Col: 3, LastMove: true}, "rgb(189,203,62)"},
		{"last move light", SquareView{Row: 6, Col: 4, LastMove: true}, "rgb(247,246,133)"},
		{"last move wins over active", SquareView{Row: 1, Col: 0, Active: true, LastMove: true}, "rgb(189,203,62)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgbString(tt.view.Background()); got != tt.want {
				t.Fatalf("background = %s, want %s", got, tt.want)
			}
			svg, err := RenderSquareSVG(tt.view)
			if err != nil {
				t.Fatalf("RenderSquareSVG: %v", err)
			}
			if !strings.Contains(string(svg), "fill: "+tt.want) {
				t.Fatalf("svg missing fill %s: %s", tt.want, svg)
			}
		})
	}
}

func TestSquareSVGDotAndPieceOrder(t *testing.T) {
	pawn := domain.Piece{Color: domain.Black, Kind: domain.Pawn}
	svg, err := RenderSquareSVG(SquareView{Row: 3, Col: 4, Piece: &pawn, Destination: true})
	if err != nil {
		t.Fatalf("RenderSquareSVG: %v", err)
	}
	out := string(svg)
	rect := strings.Index(out, "<rect")
	dot := strings.Index(out, "<circle r=\"7\"")
	glyph := strings.Index(out, "<path")
	if rect < 0 || dot < 0 || glyph < 0 || !(rect < dot && dot < glyph) {
		t.Fatalf("expected rect < dot < glyph, got %d %d %d", rect, dot, glyph)
	}
	if !strings.Contains(out, `width="40" height="40"`) {
		t.Fatalf("expected 40px output size: %s", out)
	}
	if strings.Count(out, "<svg") != 1 || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("piece glyph must be inlined without nested svg: %s", out)
	}
}

func TestSquareSVGDeterministic(t *testing.T) {
	king := domain.Piece{Color: domain.White, Kind: domain.King}
	view := SquareView{Row: 7, Col: 4, Piece: &king, Active: true}
	a, err := RenderSquareSVG(view)
	if err != nil {
		t.Fatalf("RenderSquareSVG: %v", err)
	}
	b, _ := RenderSquareSVG(view)
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output for identical input")
	}
	if bytes.Contains(a, []byte("<circle r=\"7\"")) {
		t.Fatalf("no dot expected on a non-destination square")
	}
}

func TestEveryPieceAssetLoads(t *testing.T) {
	for _, c := range []domain.Color{domain.White, domain.Black} {
		for _, k := range []domain.PieceKind{domain.King, domain.Queen, domain.Rook, domain.Bishop, domain.Knight, domain.Pawn} {
			p := domain.Piece{Color: c, Kind: k}
			body, err := pieceSVGBody(p)
			if err != nil || len(body) == 0 {
				t.Fatalf("piece %v: body err=%v", p, err)
			}
			img, err := renderPieceImage(p, 45)
			if err != nil || img.Bounds().Dx() != 45 {
				t.Fatalf("piece %v: raster err=%v", p, err)
			}
		}
	}
}

func TestSquarePNGSize(t *testing.T) {
	queen := domain.Piece{Color: domain.White, Kind: domain.Queen}
	data, err := RenderSquarePNG(context.Background(), SquareView{Row: 0, Col: 2, Piece: &queen, Destination: true}, 64)
	if err != nil {
		t.Fatalf("RenderSquarePNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 235 || g>>8 != 236 || b>>8 != 208 {
		t.Fatalf("corner pixel = %d,%d,%d; want light square", r>>8, g>>8, b>>8)
	}
}

func TestSquarePNGHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RenderSquarePNG(ctx, SquareView{}, 32); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRendererFormats(t *testing.T) {
	r := NewSVGBoardRenderer(RendererOptions{SquarePNGSize: 48})
	ctx := context.Background()

	img, err := r.Square(ctx, SquareView{}, FormatSVG)
	if err != nil || img.ContentType != ContentTypeSVG {
		t.Fatalf("svg square: %v %s", err, img.ContentType)
	}
	img, err = r.Square(ctx, SquareView{}, FormatPNG)
	if err != nil || img.ContentType != ContentTypePNG {
		t.Fatalf("png square: %v %s", err, img.ContentType)
	}
	img, err = r.ResetButton(ctx, FormatSVG)
	if err != nil || !bytes.Contains(img.Data, []byte(">Reset</text>")) {
		t.Fatalf("reset svg: %v %s", err, img.Data)
	}
	img, err = r.ResetButton(ctx, FormatPNG)
	if err != nil || img.ContentType != ContentTypePNG {
		t.Fatalf("reset png: %v", err)
	}
	img, err = r.Moves(ctx, []string{"e4"}, FormatPNG)
	if err != nil {
		t.Fatalf("moves png: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil || decoded.Bounds().Dy() != 22+48 {
		t.Fatalf("moves png height: %v %v", err, decoded)
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("PNG") != FormatPNG || ParseFormat("") != FormatSVG || ParseFormat("gif") != FormatSVG {
		t.Fatalf("unexpected format parsing")
	}
}
