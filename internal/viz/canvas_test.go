package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("Grid[0][0] = %x, want 2801", c.Grid[0][0])
	}

	c.Set(1, 3)
	// Dots accumulate within one cell.
	if c.Grid[0][0] != 0x2801|0x80 {
		t.Errorf("Grid[0][0] = %x after second dot", c.Grid[0][0])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800|0x80 {
		t.Errorf("Grid[0][0] = %x after unset", c.Grid[0][0])
	}
}

func TestCanvasBounds(t *testing.T) {
	c := NewCanvas(4, 2)
	// Out-of-range dots are dropped, never panic.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(c.DotWidth(), 0)
	c.Set(0, c.DotHeight())
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatalf("out-of-range Set touched the grid: %x", r)
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, c.DotWidth()-1, c.DotHeight()-1)
	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatalf("Clear left a dot: %x", r)
			}
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(2, 3, 15, 17)

	check := func(x, y int) {
		bit := rune(pixelMap[y%4][x%2])
		if c.Grid[y/4][x/2]&bit == 0 {
			t.Errorf("dot (%d,%d) not set", x, y)
		}
	}
	check(2, 3)
	check(15, 17)
}

func TestStringShape(t *testing.T) {
	c := NewCanvas(6, 3)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	for _, line := range lines {
		if got := len([]rune(line)); got != 6 {
			t.Errorf("row width = %d runes, want 6", got)
		}
	}
}

func TestDrawCircleStaysNearRadius(t *testing.T) {
	c := NewCanvas(20, 10)
	cx, cy, r := 20, 20, 8
	c.DrawCircle(cx, cy, r)

	found := false
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			bit := rune(pixelMap[y%4][x%2])
			if c.Grid[y/4][x/2]&bit == 0 {
				continue
			}
			found = true
			dx := float64(x - cx)
			dy := float64(y-cy) * 2 // account for the aspect squash
			rr := dx*dx + dy*dy
			if rr > float64((r+2)*(r+2)) {
				t.Errorf("dot (%d,%d) outside circle", x, y)
			}
		}
	}
	if !found {
		t.Error("circle drew nothing")
	}
}
