package layout

import (
	"errors"
	"math"
	"testing"

	"solarcube/internal/models"
)

// TestComputeConcreteScenario checks the worked example: 3 images of 10x10,
// cols=2, gap=0, dpi=100.
func TestComputeConcreteScenario(t *testing.T) {
	lay, err := Compute(3, 10, 10, 2, 0, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if lay.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", lay.Rows)
	}
	if lay.TotalWidthPx != 20 || lay.TotalHeightPx != 20 {
		t.Errorf("Expected canvas 20x20 px, got %dx%d", lay.TotalWidthPx, lay.TotalHeightPx)
	}
	if lay.WidthInches != 0.2 || lay.HeightInches != 0.2 {
		t.Errorf("Expected canvas 0.2x0.2 in, got %gx%g", lay.WidthInches, lay.HeightInches)
	}

	expected := []Rect{
		{Left: 0, Bottom: 0.5, Width: 0.5, Height: 0.5},
		{Left: 0.5, Bottom: 0.5, Width: 0.5, Height: 0.5},
		{Left: 0, Bottom: 0, Width: 0.5, Height: 0.5},
	}
	if len(lay.Cells) != len(expected) {
		t.Fatalf("Expected %d cells, got %d", len(expected), len(lay.Cells))
	}
	for i, want := range expected {
		if lay.Cells[i] != want {
			t.Errorf("Cell %d: expected %+v, got %+v", i, want, lay.Cells[i])
		}
	}
}

// TestComputeRowMajorPlacement verifies that image i always lands in row
// i/cols, column i%cols, for a spread of grid shapes.
func TestComputeRowMajorPlacement(t *testing.T) {
	cases := []struct {
		n, h, w, cols, gap int
	}{
		{1, 8, 8, 1, 0},
		{7, 16, 32, 3, 2},
		{12, 10, 10, 4, 5},
		{5, 64, 64, 5, 1},
	}

	for _, tc := range cases {
		lay, err := Compute(tc.n, tc.h, tc.w, tc.cols, tc.gap, 100)
		if err != nil {
			t.Fatalf("Compute(%+v) failed: %v", tc, err)
		}

		for i, cell := range lay.Cells {
			row := i / tc.cols
			col := i % tc.cols

			wantLeft := float64(col*(tc.w+tc.gap)) / float64(lay.TotalWidthPx)
			wantBottom := 1 - float64((row+1)*tc.h+row*tc.gap)/float64(lay.TotalHeightPx)

			if math.Abs(cell.Left-wantLeft) > 1e-12 {
				t.Errorf("case %+v cell %d: expected left %g, got %g", tc, i, wantLeft, cell.Left)
			}
			if math.Abs(cell.Bottom-wantBottom) > 1e-12 {
				t.Errorf("case %+v cell %d: expected bottom %g, got %g", tc, i, wantBottom, cell.Bottom)
			}

			// Pixel-space origin must agree with the fraction rect.
			x, y := lay.CellOrigin(i)
			if x != col*(tc.w+tc.gap) || y != row*(tc.h+tc.gap) {
				t.Errorf("case %+v cell %d: expected origin (%d,%d), got (%d,%d)",
					tc, i, col*(tc.w+tc.gap), row*(tc.h+tc.gap), x, y)
			}
		}
	}
}

// TestComputeNoOverlap converts every rectangle back to pixel space and
// verifies the cells tile without overlap and sum to the expected area.
func TestComputeNoOverlap(t *testing.T) {
	n, h, w, cols, gap := 6, 12, 9, 3, 4
	lay, err := Compute(n, h, w, cols, gap, 72)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	covered := make([]bool, lay.TotalWidthPx*lay.TotalHeightPx)
	cellArea := 0
	for i := range lay.Cells {
		x0, y0 := lay.CellOrigin(i)
		for y := y0; y < y0+h; y++ {
			for x := x0; x < x0+w; x++ {
				idx := y*lay.TotalWidthPx + x
				if covered[idx] {
					t.Fatalf("cell %d overlaps at pixel (%d,%d)", i, x, y)
				}
				covered[idx] = true
			}
		}
		cellArea += h * w
	}

	if cellArea != n*h*w {
		t.Errorf("Expected covered area %d, got %d", n*h*w, cellArea)
	}
}

// TestComputeDpiScaling verifies the physical canvas size scales inversely
// with density: doubling dpi halves both dimensions.
func TestComputeDpiScaling(t *testing.T) {
	a, err := Compute(4, 50, 50, 2, 2, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	b, err := Compute(4, 50, 50, 2, 2, 200)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if math.Abs(a.WidthInches-2*b.WidthInches) > 1e-12 {
		t.Errorf("Expected width %g to be twice %g", a.WidthInches, b.WidthInches)
	}
	if math.Abs(a.HeightInches-2*b.HeightInches) > 1e-12 {
		t.Errorf("Expected height %g to be twice %g", a.HeightInches, b.HeightInches)
	}
}

// TestComputeTrailingCells verifies the degenerate case where n is not a
// multiple of cols: the final row has unplaced trailing cells and no error.
func TestComputeTrailingCells(t *testing.T) {
	lay, err := Compute(5, 10, 10, 4, 0, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if lay.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", lay.Rows)
	}
	if len(lay.Cells) != 5 {
		t.Errorf("Expected 5 cells, got %d", len(lay.Cells))
	}
	// The single second-row cell sits at the left edge.
	if lay.Cells[4].Left != 0 {
		t.Errorf("Expected cell 4 at left edge, got left=%g", lay.Cells[4].Left)
	}
}

// TestComputeInvalidInput verifies every precondition is checked.
func TestComputeInvalidInput(t *testing.T) {
	cases := []struct {
		name               string
		n, h, w, cols, gap int
		dpi                float64
	}{
		{"zero images", 0, 10, 10, 2, 0, 100},
		{"zero height", 3, 0, 10, 2, 0, 100},
		{"zero width", 3, 10, 0, 2, 0, 100},
		{"zero cols", 3, 10, 10, 0, 0, 100},
		{"negative gap", 3, 10, 10, 2, -1, 100},
		{"zero dpi", 3, 10, 10, 2, 0, 0},
	}

	for _, tc := range cases {
		_, err := Compute(tc.n, tc.h, tc.w, tc.cols, tc.gap, tc.dpi)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

// TestComputeForFramesShapeMismatch verifies a mixed-shape collection is
// rejected as invalid input.
func TestComputeForFramesShapeMismatch(t *testing.T) {
	frames := []models.Frame{
		models.NewFrame(10, 10),
		models.NewFrame(10, 12),
	}

	_, err := ComputeForFrames(frames, 2, 0, 100)
	if err == nil {
		t.Fatal("Expected error for mismatched shapes, got nil")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

// TestComputeForStack verifies the stack helper delegates with the stack's
// shape.
func TestComputeForStack(t *testing.T) {
	s := models.NewStack(3, 10, 10)
	lay, err := ComputeForStack(s, 2, 0, 100)
	if err != nil {
		t.Fatalf("ComputeForStack failed: %v", err)
	}
	if len(lay.Cells) != 3 || lay.CellHeight != 10 || lay.CellWidth != 10 {
		t.Errorf("Unexpected layout: %+v", lay)
	}
}
