package chess

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/park285/clickchess/internal/domain"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

type pieceCacheKey struct {
	piece domain.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex

	pieceBodies   = map[domain.Piece][]byte{}
	pieceBodiesMu sync.RWMutex
)

// pieceSVGBody returns the glyph markup without its outer <svg> element so it
// can be placed inside a square image.
func pieceSVGBody(piece domain.Piece) ([]byte, error) {
	pieceBodiesMu.RLock()
	if body, ok := pieceBodies[piece]; ok {
		pieceBodiesMu.RUnlock()
		return body, nil
	}
	pieceBodiesMu.RUnlock()

	name := pieceAssetName(piece)
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	body, err := svgInner(data)
	if err != nil {
		return nil, fmt.Errorf("piece asset %s: %w", name, err)
	}

	pieceBodiesMu.Lock()
	pieceBodies[piece] = body
	pieceBodiesMu.Unlock()
	return body, nil
}

func renderPieceImage(piece domain.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	name := pieceAssetName(piece)
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}

	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

func pieceAssetName(piece domain.Piece) string {
	prefix := "w"
	if piece.Color == domain.Black {
		prefix = "b"
	}
	return fmt.Sprintf("assets/pieces/%s%s.svg", prefix, piece.Kind.Letter())
}
