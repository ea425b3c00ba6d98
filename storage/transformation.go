package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
)

// Resize selects how Width and Height are applied.
type Resize string

const (
	// ResizeLimit shrinks to fit within Width x Height, keeping the aspect
	// ratio. Smaller images are left alone.
	ResizeLimit Resize = "limit"

	// ResizeFit scales to fit within Width x Height, keeping the aspect ratio.
	ResizeFit Resize = "fit"

	// ResizeExact scales to exactly Width x Height. A zero dimension keeps the
	// aspect ratio.
	ResizeExact Resize = "exact"
)

// Transformation describes how to derive a variant image.
type Transformation struct {
	Resize Resize `json:"resize,omitempty"`
	Width  uint   `json:"width,omitempty"`
	Height uint   `json:"height,omitempty"`

	// Format is "png", "jpeg" or "gif". Empty keeps the source format.
	Format string `json:"format,omitempty"`
}

// ParseTransformation reads representation params:
//
//	{"resize_to_limit": [100, 100]}
//	{"resize_to_fit": [800, 600], "format": "png"}
//	{"resize": [64, 64]}
//	{"width": 320}
func ParseTransformation(params map[string]any) (Transformation, error) {
	var t Transformation
	var sized, dimensioned bool
	for key, value := range params {
		switch key {
		case "resize_to_limit", "resize_to_fit", "resize":
			w, h, err := dimensions(value)
			if err != nil {
				return t, fmt.Errorf("%w: %s: %v", ErrInvalidTransformation, key, err)
			}
			if sized {
				return t, fmt.Errorf("%w: more than one resize option", ErrInvalidTransformation)
			}
			sized = true
			t.Width, t.Height = w, h
			t.Resize = map[string]Resize{
				"resize_to_limit": ResizeLimit,
				"resize_to_fit":   ResizeFit,
				"resize":          ResizeExact,
			}[key]
		case "width", "height":
			n, err := toUint(value)
			if err != nil {
				return t, fmt.Errorf("%w: %s: %v", ErrInvalidTransformation, key, err)
			}
			dimensioned = true
			if key == "width" {
				t.Width = n
			} else {
				t.Height = n
			}
		case "format":
			t.Format = strings.ToLower(fmt.Sprint(value))
			if t.Format == "jpg" {
				t.Format = "jpeg"
			}
		default:
			return t, fmt.Errorf("%w: unsupported option %q", ErrInvalidTransformation, key)
		}
	}
	if sized && dimensioned {
		return t, fmt.Errorf("%w: width and height cannot be combined with a resize option", ErrInvalidTransformation)
	}
	if dimensioned {
		t.Resize = ResizeExact
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks the resize mode, dimensions and format.
func (t Transformation) Validate() error {
	switch t.Resize {
	case "":
		if t.Width != 0 || t.Height != 0 {
			return fmt.Errorf("%w: dimensions without resize mode", ErrInvalidTransformation)
		}
	case ResizeLimit, ResizeFit:
		if t.Width == 0 || t.Height == 0 {
			return fmt.Errorf("%w: %s needs width and height", ErrInvalidTransformation, t.Resize)
		}
	case ResizeExact:
		if t.Width == 0 && t.Height == 0 {
			return fmt.Errorf("%w: exact resize needs a dimension", ErrInvalidTransformation)
		}
	default:
		return fmt.Errorf("%w: unknown resize %q", ErrInvalidTransformation, t.Resize)
	}
	switch t.Format {
	case "", "png", "jpeg", "gif":
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidTransformation, t.Format)
	}
	return nil
}

// Key returns a stable digest identifying the transformation.
func (t Transformation) Key() string {
	data, _ := json.Marshal(t)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// encode returns the transformation as a compact string for signed URLs.
func (t Transformation) encode() string {
	data, _ := json.Marshal(t)
	return string(data)
}

func decodeTransformation(s string) (Transformation, error) {
	var t Transformation
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return t, fmt.Errorf("%w: %v", ErrInvalidTransformation, err)
	}
	return t, t.Validate()
}

// Apply resizes img.
func (t Transformation) Apply(img image.Image) image.Image {
	b := img.Bounds()
	switch t.Resize {
	case ResizeLimit:
		if uint(b.Dx()) <= t.Width && uint(b.Dy()) <= t.Height {
			return img
		}
		return resize.Thumbnail(t.Width, t.Height, img, resize.Lanczos3)
	case ResizeFit:
		w, h := fitWithin(uint(b.Dx()), uint(b.Dy()), t.Width, t.Height)
		return resize.Resize(w, h, img, resize.Lanczos3)
	case ResizeExact:
		return resize.Resize(t.Width, t.Height, img, resize.Lanczos3)
	}
	return img
}

// Process decodes an image from r, applies the transformation and encodes
// the result. It returns the encoded bytes and their content type.
func (t Transformation) Process(r io.Reader) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode: %v", ErrNotRepresentable, err)
	}
	if t.Format != "" {
		format = t.Format
	}

	var buf bytes.Buffer
	out := t.Apply(img)
	switch format {
	case "png":
		err = png.Encode(&buf, out)
	case "gif":
		err = gif.Encode(&buf, out, nil)
	default:
		format = "jpeg"
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), "image/" + format, nil
}

// fitWithin scales w x h up or down to fit inside maxW x maxH.
func fitWithin(w, h, maxW, maxH uint) (uint, uint) {
	if w == 0 || h == 0 {
		return maxW, maxH
	}
	if w*maxH > h*maxW {
		return maxW, h * maxW / w
	}
	return w * maxH / h, maxH
}

func dimensions(v any) (uint, uint, error) {
	var items []any
	switch d := v.(type) {
	case []any:
		items = d
	case []int:
		for _, n := range d {
			items = append(items, n)
		}
	case []uint:
		for _, n := range d {
			items = append(items, n)
		}
	default:
		return 0, 0, fmt.Errorf("want [width, height], got %T", v)
	}
	if len(items) != 2 {
		return 0, 0, fmt.Errorf("want [width, height], got %d values", len(items))
	}
	w, err := toUint(items[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := toUint(items[1])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func toUint(v any) (uint, error) {
	switch n := v.(type) {
	case int:
		if n >= 0 {
			return uint(n), nil
		}
	case int64:
		if n >= 0 {
			return uint(n), nil
		}
	case uint:
		return n, nil
	case uint64:
		return uint(n), nil
	case float64:
		if n >= 0 && n == float64(uint(n)) {
			return uint(n), nil
		}
	}
	return 0, fmt.Errorf("invalid dimension %v", v)
}
