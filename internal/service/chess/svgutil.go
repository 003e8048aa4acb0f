package chess

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill:000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: 000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: 000000"), []byte("stroke:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	return fixed
}

// svgInner strips the outermost <svg ...> and </svg> tags.
func svgInner(doc []byte) ([]byte, error) {
	start := bytes.Index(doc, []byte("<svg"))
	if start < 0 {
		return nil, errors.New("missing <svg> element")
	}
	open := bytes.IndexByte(doc[start:], '>')
	if open < 0 {
		return nil, errors.New("unterminated <svg> element")
	}
	end := bytes.LastIndex(doc, []byte("</svg>"))
	bodyStart := start + open + 1
	if end < bodyStart {
		return nil, errors.New("missing </svg>")
	}
	return bytes.TrimSpace(doc[bodyStart:end]), nil
}

func escapeText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
