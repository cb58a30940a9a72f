package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// noisePNG encodes a deterministic noise image; noise defeats PNG and JPEG
// compression enough to force the grid search to do real work.
func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	state := uint32(0x2545F491)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			state ^= state << 13
			state ^= state >> 17
			state ^= state << 5
			img.Set(x, y, color.RGBA{uint8(state), uint8(state >> 8), uint8(state >> 16), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestShrink_UnderBudgetPassesThroughUnchanged(t *testing.T) {
	data := []byte("already small enough")
	res := Shrink(data, "image/jpeg", 1<<20)
	if !bytes.Equal(res.Data, data) {
		t.Fatalf("under-budget input must be byte-identical")
	}
	if res.Ext != "jpg" {
		t.Fatalf("expected jpg extension from MIME subtype, got %q", res.Ext)
	}
}

func TestShrink_OversizedImageFitsBudget(t *testing.T) {
	budget := int64(1 << 20)
	data := noisePNG(t, 1200, 900)
	if int64(len(data)) <= budget {
		t.Fatalf("fixture too small to exercise the grid: %d bytes", len(data))
	}
	res := Shrink(data, "image/png", budget)
	if int64(len(res.Data)) > budget {
		t.Fatalf("expected a grid point under budget, got %d bytes", len(res.Data))
	}
	if len(res.Data) >= len(data) {
		t.Fatalf("result must be smaller than input: %d vs %d", len(res.Data), len(data))
	}
	if res.Ext != "jpg" {
		t.Fatalf("re-encoded result must carry the lossy extension, got %q", res.Ext)
	}
}

func TestShrink_ResultNeverLargerThanInput(t *testing.T) {
	data := noisePNG(t, 600, 400)
	// A one-byte budget can never be met; the encoder must degrade to its
	// smallest candidate, still no larger than the input.
	res := Shrink(data, "image/png", 1)
	if len(res.Data) > len(data) {
		t.Fatalf("result larger than input: %d vs %d", len(res.Data), len(data))
	}
}

func TestShrink_UndecodableInputPassesThrough(t *testing.T) {
	junk := bytes.Repeat([]byte{0xde, 0xad}, 4096)
	res := Shrink(junk, "image/webp", 16)
	if !bytes.Equal(res.Data, junk) {
		t.Fatalf("undecodable input must pass through unchanged")
	}
	if res.Ext != "webp" {
		t.Fatalf("expected MIME-derived extension, got %q", res.Ext)
	}
}

func TestShrink_NonPositiveBudgetUsesDefault(t *testing.T) {
	data := []byte("tiny")
	res := Shrink(data, "image/png", 0)
	if !bytes.Equal(res.Data, data) {
		t.Fatalf("tiny input must pass through under the default budget")
	}
}

func TestExtForMIME(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":    "jpg",
		"image/jpg":     "jpg",
		"image/svg+xml": "svg",
		"image/webp":    "webp",
		"image/gif":     "gif",
		"image/png":     "png",
		"image/bmp":     "png",
		"":              "png",
	}
	for in, want := range cases {
		if got := ExtForMIME(in); got != want {
			t.Fatalf("ExtForMIME(%q) = %q, want %q", in, got, want)
		}
	}
}
