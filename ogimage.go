package pagegen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

const (
	ogImageWidth  = 1200
	ogImageHeight = 630
	jpegQuality   = 85
	maxImageSize  = 10 << 20 // 10MB
)

// processOGImage decodes src, crops it to the 1.91:1 social preview ratio
// around its centre, scales it to 1200x630 and encodes it as JPEG.
func processOGImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(io.LimitReader(src, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, ogImageWidth, ogImageHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, coverRect(img.Bounds(), ogImageWidth, ogImageHeight), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// coverRect returns the largest centred sub-rectangle of b with the aspect
// ratio w:h.
func coverRect(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	if bw*h > bh*w {
		cw := bh * w / h
		x0 := b.Min.X + (bw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := bw * h / w
	y0 := b.Min.Y + (bh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}

// readOGImage processes the image file at path.
func readOGImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return processOGImage(f)
}

// loadOGImage processes the configured image once and keeps the result.
func (a *App) loadOGImage() ([]byte, error) {
	if a.Config.OGImagePath == "" {
		return nil, ErrNotFound
	}
	a.ogOnce.Do(func() {
		a.ogImage, a.ogErr = readOGImage(a.Config.OGImagePath)
		if a.ogErr != nil {
			a.logger.Error("og image unavailable", "path", a.Config.OGImagePath, "error", a.ogErr)
		}
	})
	return a.ogImage, a.ogErr
}

func (a *App) ogImageURL() string {
	if a.Config.OGImagePath == "" {
		return ""
	}
	return siteFileURL(a.Config.URL, "og-image.jpg")
}

// siteFileURL joins a file name onto the site root without a trailing slash.
func siteFileURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
