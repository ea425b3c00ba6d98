package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestParseTransformation(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   Transformation
	}{
		{"limit", map[string]any{"resize_to_limit": []int{100, 80}}, Transformation{Resize: ResizeLimit, Width: 100, Height: 80}},
		{"fit from yaml", map[string]any{"resize_to_fit": []any{800, 600}}, Transformation{Resize: ResizeFit, Width: 800, Height: 600}},
		{"fit from json", map[string]any{"resize_to_fit": []any{800.0, 600.0}}, Transformation{Resize: ResizeFit, Width: 800, Height: 600}},
		{"exact", map[string]any{"resize": []uint{64, 64}, "format": "PNG"}, Transformation{Resize: ResizeExact, Width: 64, Height: 64, Format: "png"}},
		{"width only", map[string]any{"width": 320}, Transformation{Resize: ResizeExact, Width: 320}},
		{"jpg alias", map[string]any{"format": "jpg"}, Transformation{Format: "jpeg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransformation(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTransformation_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown option":   {"rotate": 90},
		"one dimension":    {"resize_to_limit": []int{100}},
		"negative":         {"resize_to_limit": []int{-1, 100}},
		"fraction":         {"width": 10.5},
		"not a list":       {"resize_to_fit": "100x100"},
		"zero limit":       {"resize_to_limit": []int{0, 100}},
		"two resizes":      {"resize_to_limit": []int{1, 1}, "resize_to_fit": []int{2, 2}},
		"mixed dimensions": {"resize_to_limit": []int{1, 1}, "width": 3},
		"bad format":       {"format": "bmp"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTransformation(params)
			assert.ErrorIs(t, err, ErrInvalidTransformation)
		})
	}
}

func TestTransformation_Apply(t *testing.T) {
	tests := []struct {
		name         string
		t            Transformation
		w, h         int
		wantW, wantH int
	}{
		{"limit shrinks", Transformation{Resize: ResizeLimit, Width: 100, Height: 100}, 200, 100, 100, 50},
		{"limit keeps small", Transformation{Resize: ResizeLimit, Width: 100, Height: 100}, 40, 20, 40, 20},
		{"fit grows", Transformation{Resize: ResizeFit, Width: 100, Height: 100}, 50, 25, 100, 50},
		{"fit tall", Transformation{Resize: ResizeFit, Width: 100, Height: 100}, 20, 40, 50, 100},
		{"exact", Transformation{Resize: ResizeExact, Width: 30, Height: 10}, 200, 100, 30, 10},
		{"exact keeps ratio", Transformation{Resize: ResizeExact, Width: 50}, 200, 100, 50, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.t.Apply(testImage(tt.w, tt.h))
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestTransformation_Process(t *testing.T) {
	tr := Transformation{Resize: ResizeLimit, Width: 10, Height: 10}

	data, contentType, err := tr.Process(bytes.NewReader(testPNG(t, 40, 20)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())

	tr.Format = "jpeg"
	_, contentType, err = tr.Process(bytes.NewReader(testPNG(t, 40, 20)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	_, _, err = tr.Process(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestTransformation_KeyAndEncoding(t *testing.T) {
	a := Transformation{Resize: ResizeLimit, Width: 100, Height: 100}
	b := Transformation{Resize: ResizeLimit, Width: 100, Height: 101}

	assert.Equal(t, a.Key(), a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 16)

	decoded, err := decodeTransformation(a.encode())
	require.NoError(t, err)
	assert.Equal(t, a, decoded)

	_, err = decodeTransformation("{")
	assert.ErrorIs(t, err, ErrInvalidTransformation)
}
