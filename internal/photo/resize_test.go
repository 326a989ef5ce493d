package photo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, w, h int, usePNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	var err error
	if usePNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), format
}

func TestResizeOversizedLandscape(t *testing.T) {
	in := encodeTestImage(t, 1200, 800, false)
	out, err := Resize(in, MaxDimension, JPEGQuality)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	w, h, format := decodeBounds(t, out)
	if w != MaxDimension || h != MaxDimension {
		t.Fatalf("got %dx%d, want %dx%d", w, h, MaxDimension, MaxDimension)
	}
	if format != "jpeg" {
		t.Fatalf("got format %s, want jpeg", format)
	}
}

func TestResizeOversizedPortrait(t *testing.T) {
	in := encodeTestImage(t, 600, 2000, false)
	out, err := Resize(in, MaxDimension, JPEGQuality)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	w, h, _ := decodeBounds(t, out)
	if w != MaxDimension || h != MaxDimension {
		t.Fatalf("got %dx%d, want square fill", w, h)
	}
}

func TestResizeSmallImagePassesThrough(t *testing.T) {
	in := encodeTestImage(t, 200, 120, false)
	out, err := Resize(in, MaxDimension, JPEGQuality)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	w, h, format := decodeBounds(t, out)
	if w != 200 || h != 120 {
		t.Fatalf("small image was scaled: %dx%d", w, h)
	}
	if format != "jpeg" {
		t.Fatalf("got format %s, want jpeg", format)
	}
}

func TestResizeNormalizesPNG(t *testing.T) {
	in := encodeTestImage(t, 800, 800, true)
	out, err := Resize(in, MaxDimension, JPEGQuality)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	_, _, format := decodeBounds(t, out)
	if format != "jpeg" {
		t.Fatalf("got format %s, want jpeg", format)
	}
}

func TestResizeGarbage(t *testing.T) {
	if _, err := Resize([]byte("not an image"), MaxDimension, JPEGQuality); err == nil {
		t.Fatalf("expected error for garbage input")
	}
	if _, err := Resize(nil, MaxDimension, JPEGQuality); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestProcessorSubmit(t *testing.T) {
	p := NewProcessor(2)
	in := encodeTestImage(t, 1000, 1000, false)

	res := <-p.Submit(context.Background(), in)
	if res.Err != nil {
		t.Fatalf("submit: %v", res.Err)
	}
	w, h, _ := decodeBounds(t, res.Data)
	if w != MaxDimension || h != MaxDimension {
		t.Fatalf("got %dx%d", w, h)
	}
}

func TestProcessorCancelledContext(t *testing.T) {
	p := NewProcessor(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Hold the only worker slot so the cancelled submit has to wait on it.
	blocked := p.Submit(context.Background(), encodeTestImage(t, 1200, 1200, false))

	res := <-p.Submit(ctx, encodeTestImage(t, 50, 50, false))
	if res.Err == nil {
		// The acquire can still win the race against the held slot; a
		// successful resize is acceptable, an unexplained failure is not.
		if res.Data == nil {
			t.Fatalf("no data and no error")
		}
	}
	<-blocked
}
