package format

import "testing"

func TestDefaultIsUnconstrained(t *testing.T) {
	o := Default()
	if o.MaxWidth != -1 || o.MaxHeight != -1 {
		t.Errorf("Default() caps = (%d,%d), want (-1,-1)", o.MaxWidth, o.MaxHeight)
	}
	if !o.Resizable {
		t.Error("Default() should leave the destination resizable")
	}
}

func TestComputeOutputSizeNoConstraint(t *testing.T) {
	o := Default()
	w, h, mode, err := ComputeOutputSize(o, 800, 600)
	if err != nil {
		t.Fatalf("ComputeOutputSize: %v", err)
	}
	if w != 800 || h != 600 || mode != ScaleNone {
		t.Errorf("got (%d,%d,%v), want (800,600,ScaleNone)", w, h, mode)
	}
}

func TestComputeOutputSizeLetterboxPreservesAspect(t *testing.T) {
	o := Default().WithMaxSize(100, 100).WithScaleMode(ScaleLetterbox)
	w, h, _, err := ComputeOutputSize(o, 400, 200)
	if err != nil {
		t.Fatalf("ComputeOutputSize: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("letterbox(400x200 into 100x100) = %dx%d, want 100x50", w, h)
	}
}

func TestComputeOutputSizeFitIgnoresAspect(t *testing.T) {
	o := Default().WithMaxSize(50, 80).WithScaleMode(ScaleFit)
	w, h, _, err := ComputeOutputSize(o, 400, 200)
	if err != nil {
		t.Fatalf("ComputeOutputSize: %v", err)
	}
	if w != 50 || h != 80 {
		t.Errorf("fit(400x200 into 50x80) = %dx%d, want 50x80 exactly", w, h)
	}
}

func TestComputeCropRectAbsolute(t *testing.T) {
	o := Default().WithCropAbsolute(10, 20, 100, 50)
	r, err := ComputeCropRect(o, 400, 400)
	if err != nil {
		t.Fatalf("ComputeCropRect: %v", err)
	}
	if r.X != 10 || r.Y != 20 || r.Width != 100 || r.Height != 50 {
		t.Errorf("got %+v, want {10 20 100 50}", r)
	}
}

func TestComputeCropRectRelative(t *testing.T) {
	o := Default().WithCropRelative(0.25, 0.25, 0.5, 0.5)
	r, err := ComputeCropRect(o, 400, 200)
	if err != nil {
		t.Fatalf("ComputeCropRect: %v", err)
	}
	if r.X != 100 || r.Y != 50 || r.Width != 200 || r.Height != 100 {
		t.Errorf("got %+v, want {100 50 200 100}", r)
	}
}

func TestComputeCropRectClampsToSource(t *testing.T) {
	o := Default().WithCropAbsolute(350, 350, 200, 200)
	r, err := ComputeCropRect(o, 400, 400)
	if err != nil {
		t.Fatalf("ComputeCropRect: %v", err)
	}
	if r.X+r.Width > 400 || r.Y+r.Height > 400 {
		t.Errorf("crop rect %+v escapes the 400x400 source", r)
	}
}

func TestComputeOutputSizeRejectsEmptySource(t *testing.T) {
	o := Default()
	if _, _, _, err := ComputeOutputSize(o, 0, 100); err == nil {
		t.Fatal("expected an error for a zero-width source")
	}
}

func TestSourceWindowForCropCentersOnWideSource(t *testing.T) {
	r := SourceWindowForCrop(400, 200, 1, 1)
	if r.Height != 200 {
		t.Errorf("crop window height = %d, want full 200", r.Height)
	}
	if r.X <= 0 || r.X+r.Width >= 400 {
		t.Errorf("crop window %+v should be strictly inset from a 400-wide source", r)
	}
}
