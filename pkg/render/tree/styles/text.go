package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontWidthRatio = 0.85
	fontCharWidth  = 0.55
	fontSizeMin    = 8.0
	fontSizeMax    = 16.0
	labelBaseSize  = 14.0
	subSizeRatio   = 0.8
)

// LabelSize shrinks the name line until it fits the card width.
func LabelSize(n Node) float64 {
	chars := max(1, len(n.Label))
	byWidth := (n.W * fontWidthRatio) / (float64(chars) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(labelBaseSize, byWidth)))
}

// SubSize is the secondary line size, proportional to the label.
func SubSize(n Node) float64 { return LabelSize(n) * subSizeRatio }

// TruncateLabel shortens s to what fits in the card at the given size.
func TruncateLabel(n Node, s string, fontSize float64) string {
	availW := n.W * fontWidthRatio
	charWidth := fontSize * fontCharWidth
	maxChars := int(availW / charWidth)
	if maxChars < 3 {
		maxChars = 3
	}
	if len(s) <= maxChars {
		return s
	}
	return s[:maxChars-2] + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}
