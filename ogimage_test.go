package pagegen

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestCoverRect(t *testing.T) {
	tests := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
	}{
		{"wide", image.Rect(0, 0, 2400, 630), image.Rect(600, 0, 1800, 630)},
		{"tall", image.Rect(0, 0, 1200, 1200), image.Rect(0, 285, 1200, 915)},
		{"exact", image.Rect(0, 0, 1200, 630), image.Rect(0, 0, 1200, 630)},
		{"offset", image.Rect(10, 10, 1210, 640), image.Rect(10, 10, 1210, 640)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coverRect(tt.in, ogImageWidth, ogImageHeight); got != tt.want {
				t.Errorf("coverRect(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProcessOGImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			src.Set(x, y, color.RGBA{R: 15, G: 118, B: 110, A: 255})
		}
	}
	var in bytes.Buffer
	if err := png.Encode(&in, src); err != nil {
		t.Fatal(err)
	}

	out, err := processOGImage(&in)
	if err != nil {
		t.Fatalf("processOGImage: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != ogImageWidth || b.Dy() != ogImageHeight {
		t.Errorf("output size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessOGImageRejectsGarbage(t *testing.T) {
	if _, err := processOGImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected decode error")
	}
}

func TestSiteFileURL(t *testing.T) {
	for _, base := range []string{"https://example.com", "https://example.com/"} {
		if got := siteFileURL(base, "og-image.jpg"); got != "https://example.com/og-image.jpg" {
			t.Errorf("siteFileURL(%q) = %q", base, got)
		}
	}
}
