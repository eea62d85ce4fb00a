package extract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension bounds both sides of the image sent to the model.
const MaxDimension = 1024

// Downscale shrinks img so neither side exceeds MaxDimension, keeping the
// aspect ratio. The whole bitmap is always decoded so truncated files fail
// here. Images already in bounds are returned unchanged.
func Downscale(img []byte) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	b := src.Bounds()
	if b.Dx() <= MaxDimension && b.Dy() <= MaxDimension {
		return img, "image/" + format, nil
	}

	w, h := scaledSize(b.Dx(), b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	if format == "png" {
		if err := png.Encode(&out, dst); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return out.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), "image/jpeg", nil
}

func scaledSize(w, h int) (int, int) {
	longest := max(w, h)
	scale := float64(MaxDimension) / float64(longest)
	nw := max(int(float64(w)*scale), 1)
	nh := max(int(float64(h)*scale), 1)
	return nw, nh
}
