// Package imaging re-encodes report images so they fit a delivery byte
// budget. Oversized images walk a fixed (scale, quality) grid and the first
// candidate under budget wins; if nothing fits, the smallest candidate is
// returned rather than failing the pipeline for one heavy image.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	xdraw "golang.org/x/image/draw"
)

// DefaultBudget is used when the caller's budget is unset or non-positive.
const DefaultBudget = 1 << 20

// minWidth is the downscale floor. Shrinking below this makes screenshots of
// forum posts unreadable, which defeats the point of attaching them.
const minWidth = 320

var (
	scaleSteps   = []float64{1, 0.85, 0.70, 0.55}
	qualitySteps = []int{82, 72, 62, 52}
)

// Result is the re-encoded payload plus a file-extension hint for naming the
// attachment.
type Result struct {
	Data []byte
	Ext  string
}

// Shrink returns data re-encoded to fit budget when possible. Inputs already
// at or under budget pass through byte-identical. Undecodable inputs pass
// through unchanged too; a bad image must not abort record processing. The
// result is never larger than the input.
func Shrink(data []byte, mimeType string, budget int64) Result {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if int64(len(data)) <= budget {
		return Result{Data: data, Ext: ExtForMIME(mimeType)}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{Data: data, Ext: ExtForMIME(mimeType)}
	}
	img = normalizeOrientation(data, img)
	origWidth := img.Bounds().Dx()

	var best []byte
	for _, scale := range scaleSteps {
		frame := img
		if scale < 1 && origWidth > 0 {
			w := int(float64(origWidth) * scale)
			if w < minWidth {
				w = minWidth
			}
			if w < origWidth {
				frame = resizeToWidth(img, w)
			}
		}
		for _, q := range qualitySteps {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: q}); err != nil {
				continue
			}
			cand := buf.Bytes()
			if int64(len(cand)) <= budget {
				return Result{Data: cand, Ext: "jpg"}
			}
			if best == nil || len(cand) < len(best) {
				best = cand
			}
		}
	}

	// Grid exhausted over budget: degrade gracefully to the smallest
	// candidate, but never hand back more bytes than we were given.
	if best != nil && len(best) < len(data) {
		return Result{Data: best, Ext: "jpg"}
	}
	return Result{Data: data, Ext: ExtForMIME(mimeType)}
}

// ExtForMIME derives a file-extension hint from a MIME type: image/jpeg
// becomes jpg, svg/webp/gif subtypes keep their name, everything else is
// treated as png.
func ExtForMIME(mimeType string) string {
	sub := strings.ToLower(mimeType)
	if i := strings.IndexByte(sub, '/'); i >= 0 {
		sub = sub[i+1:]
	}
	switch {
	case sub == "jpeg" || sub == "jpg":
		return "jpg"
	case strings.Contains(sub, "svg"):
		return "svg"
	case strings.Contains(sub, "webp"):
		return "webp"
	case strings.Contains(sub, "gif"):
		return "gif"
	default:
		return "png"
	}
}

func resizeToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return src
	}
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// normalizeOrientation applies the EXIF orientation, if any, so JPEG
// re-encodes do not come out sideways. Images without readable EXIF are
// returned as-is.
func normalizeOrientation(raw []byte, img image.Image) image.Image {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	o, err := tag.Int(0)
	if err != nil {
		return img
	}
	switch o {
	case 2:
		return transform(img, func(w, h, x, y int) (int, int) { return w - 1 - x, y })
	case 3:
		return transform(img, func(w, h, x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4:
		return transform(img, func(w, h, x, y int) (int, int) { return x, h - 1 - y })
	case 5:
		return transformSwap(img, func(w, h, x, y int) (int, int) { return y, x })
	case 6:
		return transformSwap(img, func(w, h, x, y int) (int, int) { return y, h - 1 - x })
	case 7:
		return transformSwap(img, func(w, h, x, y int) (int, int) { return w - 1 - y, h - 1 - x })
	case 8:
		return transformSwap(img, func(w, h, x, y int) (int, int) { return w - 1 - y, x })
	default:
		return img
	}
}

// transform builds a same-size copy where each destination pixel (x, y) is
// read from the source coordinate returned by pick(w, h, x, y).
func transform(src image.Image, pick func(w, h, x, y int) (int, int)) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := pick(w, h, x, y)
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}

// transformSwap is transform for the four orientations that exchange width
// and height.
func transformSwap(src image.Image, pick func(w, h, x, y int) (int, int)) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			sx, sy := pick(w, h, x, y)
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
