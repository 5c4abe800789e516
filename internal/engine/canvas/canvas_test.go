package canvas

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func redImage(w, h int) *image.RGBA {
	return Uniform(w, h, color.RGBA{R: 255, A: 255})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     *image.RGBA
		wantErr bool
	}{
		{"nil image", nil, true},
		{"valid 1x1", image.NewRGBA(image.Rect(0, 0, 1, 1)), false},
		{"valid 16x9", image.NewRGBA(image.Rect(0, 0, 16, 9)), false},
		{"zero width", &image.RGBA{Rect: image.Rect(0, 0, 0, 5)}, true},
		{"zero height", &image.RGBA{Rect: image.Rect(0, 0, 5, 0)}, true},
		{"short buffer", &image.RGBA{Pix: make([]uint8, 10), Stride: 16, Rect: image.Rect(0, 0, 4, 4)}, true},
		{"oversized buffer", &image.RGBA{Pix: make([]uint8, 100), Stride: 16, Rect: image.Rect(0, 0, 4, 4)}, true},
		{"loose stride", &image.RGBA{Pix: make([]uint8, 64), Stride: 20, Rect: image.Rect(0, 0, 4, 4)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.img)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidImage) {
				t.Errorf("error %v does not wrap ErrInvalidImage", err)
			}
		})
	}
}

func TestValidateRejectsSubImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	sub := base.SubImage(image.Rect(2, 2, 6, 6)).(*image.RGBA)
	if err := Validate(sub); err == nil {
		t.Error("sub-image passed validation, want ErrInvalidImage")
	}
}

func TestCanvasSetAndImage(t *testing.T) {
	c := New()
	if !c.Empty() {
		t.Fatal("new canvas should be empty")
	}

	img := redImage(4, 4)
	if err := c.Set(img); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if c.Empty() {
		t.Error("canvas empty after Set")
	}
	if got := c.Image(); got != img {
		t.Error("Image() should return the stored image")
	}
	if w, h := c.Size(); w != 4 || h != 4 {
		t.Errorf("Size() = %dx%d, want 4x4", w, h)
	}
}

func TestCanvasSetInvalid(t *testing.T) {
	c := New(WithImage(redImage(2, 2)))

	err := c.Set(nil)
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("Set(nil) error = %v, want ErrInvalidImage", err)
	}
	// A failed Set must not disturb the current image.
	if c.Empty() {
		t.Error("canvas lost its image after a failed Set")
	}
}

func TestCanvasSnapshotIndependence(t *testing.T) {
	img := redImage(3, 3)
	c := New(WithImage(img))

	snap := c.Snapshot()
	if !Equal(snap, img) {
		t.Fatal("snapshot differs from canvas image")
	}

	snap.Pix[0] = 0
	if c.Image().Pix[0] != 255 {
		t.Error("mutating a snapshot changed the canvas")
	}
}

func TestCanvasSnapshotEmpty(t *testing.T) {
	if snap := New().Snapshot(); snap != nil {
		t.Errorf("Snapshot() on empty canvas = %v, want nil", snap)
	}
}

func TestCanvasBounds(t *testing.T) {
	c := New()
	if b := c.Bounds(); b != (image.Rectangle{}) {
		t.Errorf("empty canvas Bounds() = %v, want zero rectangle", b)
	}

	if err := c.Reset(redImage(5, 7)); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	want := image.Rect(0, 0, 5, 7)
	if b := c.Bounds(); b != want {
		t.Errorf("Bounds() = %v, want %v", b, want)
	}
}

func TestWithImageIgnoresInvalid(t *testing.T) {
	c := New(WithImage(nil))
	if !c.Empty() {
		t.Error("WithImage(nil) should leave the canvas empty")
	}
}

func TestClone(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}

	img := redImage(2, 2)
	dup := Clone(img)
	if !Equal(img, dup) {
		t.Fatal("clone differs from original")
	}
	dup.Pix[0] = 0
	if img.Pix[0] != 255 {
		t.Error("mutating a clone changed the original")
	}
}

func TestNormalize(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		img := redImage(2, 2)
		if Normalize(img) != img {
			t.Error("canonical image should pass through unchanged")
		}
	})

	t.Run("converts NRGBA", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		got := Normalize(src)
		if err := Validate(got); err != nil {
			t.Fatalf("normalized image invalid: %v", err)
		}
		if got.Pix[0] != 10 || got.Pix[1] != 20 || got.Pix[2] != 30 {
			t.Errorf("pixel (0,0) = %v, want 10 20 30", got.Pix[:4])
		}
	})

	t.Run("rebases sub-image", func(t *testing.T) {
		base := Uniform(10, 10, color.RGBA{G: 200, A: 255})
		sub := base.SubImage(image.Rect(2, 2, 6, 6)).(*image.RGBA)
		got := Normalize(sub)
		if err := Validate(got); err != nil {
			t.Fatalf("normalized sub-image invalid: %v", err)
		}
		if got.Bounds() != image.Rect(0, 0, 4, 4) {
			t.Errorf("bounds = %v, want (0,0)-(4,4)", got.Bounds())
		}
		if got.RGBAAt(0, 0).G != 200 {
			t.Errorf("pixel content lost in rebase: %v", got.RGBAAt(0, 0))
		}
	})
}

func TestEqual(t *testing.T) {
	a := redImage(2, 2)
	b := Clone(a)
	if !Equal(a, b) {
		t.Error("identical images reported unequal")
	}
	b.Pix[5] = 9
	if Equal(a, b) {
		t.Error("differing images reported equal")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Error("nil comparison rules violated")
	}
	if Equal(redImage(2, 2), redImage(2, 3)) {
		t.Error("images with different bounds reported equal")
	}
}
