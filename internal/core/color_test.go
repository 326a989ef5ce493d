package core

import (
	"bytes"
	"testing"
)

func TestColorRoundTrip(t *testing.T) {
	cases := []Color{
		{},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 0x12, G: 0x34, B: 0x56, A: 0x78},
		DefaultCardColor,
	}
	for i, c := range cases {
		got, ok := DecodeColor(EncodeColor(c))
		if !ok {
			t.Fatalf("case %d: decode failed", i)
		}
		if got != c {
			t.Fatalf("case %d: round trip %+v != %+v", i, got, c)
		}
	}
}

func TestDecodeColorGarbage(t *testing.T) {
	blobs := [][]byte{
		nil,
		{},
		{0x00},
		[]byte("not a color"),
		bytes.Repeat([]byte{0xff}, 64),
		EncodeColor(Color{R: 1})[:5],                           // truncated
		{colorMagic0, colorMagic1, 99, 0, 0, 0, 0},             // unknown version
		{0xde, 0xad, colorVersion, 1, 2, 3, 4},                 // wrong magic
		append(EncodeColor(Color{R: 1}), 0x00),                 // trailing byte
	}
	for i, blob := range blobs {
		if _, ok := DecodeColor(blob); ok {
			t.Fatalf("case %d: expected decode failure for %v", i, blob)
		}
	}
}

func TestColorOrDefault(t *testing.T) {
	c := Color{R: 10, G: 20, B: 30, A: 40}
	if got := ColorOrDefault(EncodeColor(c)); got != c {
		t.Fatalf("expected decoded color, got %+v", got)
	}
	if got := ColorOrDefault([]byte("junk")); got != DefaultCardColor {
		t.Fatalf("expected default color, got %+v", got)
	}
	if got := ColorOrDefault(nil); got != DefaultCardColor {
		t.Fatalf("expected default color for nil blob, got %+v", got)
	}
}
