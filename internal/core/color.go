// Package core holds the card ledger domain model: cards, transactions,
// categories, the color codec and the balance/filter operations over them.
package core

// Color is an opaque presentation color in 8-bit RGBA.
type Color struct {
	R, G, B, A uint8
}

// DefaultCardColor is used when a stored color blob cannot be decoded.
var DefaultCardColor = Color{R: 0x80, G: 0x00, B: 0x80, A: 0xff}

// Blob layout: two magic bytes, a version byte, then R G B A.
const (
	colorMagic0  = 0xc1
	colorMagic1  = 0x0c
	colorVersion = 1
	colorBlobLen = 7
)

// EncodeColor encodes c into a storable blob. Encoding never fails.
func EncodeColor(c Color) []byte {
	return []byte{colorMagic0, colorMagic1, colorVersion, c.R, c.G, c.B, c.A}
}

// DecodeColor decodes a blob produced by EncodeColor. Blobs that are empty,
// truncated, or written by some other scheme decode to (Color{}, false);
// callers fall back to DefaultCardColor. Garbage input never panics.
func DecodeColor(blob []byte) (Color, bool) {
	if len(blob) != colorBlobLen {
		return Color{}, false
	}
	if blob[0] != colorMagic0 || blob[1] != colorMagic1 || blob[2] != colorVersion {
		return Color{}, false
	}
	return Color{R: blob[3], G: blob[4], B: blob[5], A: blob[6]}, true
}

// ColorOrDefault decodes blob, substituting DefaultCardColor when the blob
// does not decode.
func ColorOrDefault(blob []byte) Color {
	if c, ok := DecodeColor(blob); ok {
		return c
	}
	return DefaultCardColor
}
