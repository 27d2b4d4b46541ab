package tile

import (
	"errors"
	"testing"

	"github.com/sosoyan/aton/types"
)

func TestSingleTile(t *testing.T) {
	sizes := []types.Size{{1, 1}, {7, 3}, {1920, 1080}, {4096, 2160}}

	for index, s := range sizes {
		tiles, err := Split(s.W, s.H, 0)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if len(tiles) != 1 {
			t.Fatalf("[spec %d] expected 1 tile; got %d", index, len(tiles))
		}
		exp := types.Region{XMin: 0, YMin: 0, XMax: s.W, YMax: s.H}
		if tiles[0] != exp {
			t.Fatalf("[spec %d] expected tile %v; got %v", index, exp, tiles[0])
		}
	}
}

func TestSteps(t *testing.T) {
	type spec struct {
		w, h, f      int
		expX, expY int
	}
	specs := []spec{
		{1024, 1024, 0, 1024, 1024},
		{1024, 1024, 1, 512, 1024},
		{1024, 1024, 2, 512, 512},
		{1024, 1024, 3, 256, 512},
		{1024, 1024, 4, 256, 256},
		{1920, 1080, 5, 240, 270},
	}

	for index, s := range specs {
		x, y := Steps(s.w, s.h, s.f)
		if x != s.expX || y != s.expY {
			t.Fatalf("[spec %d] expected steps (%d, %d); got (%d, %d)", index, s.expX, s.expY, x, y)
		}
	}
}

func TestTileCount(t *testing.T) {
	for f := 0; f <= 8; f++ {
		tiles, err := Split(1024, 768, f)
		if err != nil {
			t.Fatalf("[factor %d] unexpected error: %v", f, err)
		}
		if exp := 1 << f; len(tiles) != exp {
			t.Fatalf("[factor %d] expected %d tiles; got %d", f, exp, len(tiles))
		}
	}
}

func TestEvenPartition(t *testing.T) {
	tiles, err := Split(1024, 1024, 2)
	if err != nil {
		t.Fatal(err)
	}

	expTiles := []types.Region{
		{0, 0, 512, 512},
		{512, 0, 1024, 512},
		{0, 512, 512, 1024},
		{512, 512, 1024, 1024},
	}
	if len(tiles) != len(expTiles) {
		t.Fatalf("expected %d tiles; got %d", len(expTiles), len(tiles))
	}
	for index, exp := range expTiles {
		if tiles[index] != exp {
			t.Fatalf("expected tile %d to be %v; got %v", index, exp, tiles[index])
		}
	}

	assertPartition(t, tiles, types.Region{XMax: 1024, YMax: 1024})
}

func TestPartitionInvariants(t *testing.T) {
	type spec struct {
		w, h, f int
	}
	specs := []spec{
		{1920, 1080, 1},
		{1920, 1080, 3},
		{2048, 1024, 6},
		// Non-divisible frames still cover every pixel exactly once.
		{1001, 777, 4},
		{7, 5, 2},
	}

	for _, s := range specs {
		tiles, err := Split(s.w, s.h, s.f)
		if err != nil {
			t.Fatalf("%dx%d/%d: unexpected error: %v", s.w, s.h, s.f, err)
		}
		if len(tiles) != 1<<s.f {
			t.Fatalf("%dx%d/%d: expected %d tiles; got %d", s.w, s.h, s.f, 1<<s.f, len(tiles))
		}
		assertPartition(t, tiles, types.Region{XMax: s.w, YMax: s.h})
	}
}

func TestTilesAreRestartable(t *testing.T) {
	plan, err := NewPlan(640, 480, 3)
	if err != nil {
		t.Fatal(err)
	}

	var first, second []types.Region
	for _, r := range plan.Tiles() {
		first = append(first, r)
	}
	for _, r := range plan.Tiles() {
		second = append(second, r)
	}

	if len(first) != plan.Len() || len(second) != plan.Len() {
		t.Fatalf("expected %d tiles per iteration; got %d and %d", plan.Len(), len(first), len(second))
	}
	for index := range first {
		if first[index] != second[index] {
			t.Fatalf("tile %d differs between iterations: %v vs %v", index, first[index], second[index])
		}
	}

	// Breaking early must not yield further tiles.
	count := 0
	for index := range plan.Tiles() {
		count++
		if index == 2 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("expected iteration to stop after 3 tiles; got %d", count)
	}
}

func TestInvalidPlans(t *testing.T) {
	type spec struct {
		w, h, f int
		expErr  error
	}
	specs := []spec{
		{0, 10, 0, ErrInvalidSize},
		{10, -1, 0, ErrInvalidSize},
		{10, 10, -1, ErrInvalidSplit},
		{4, 4, 6, ErrTooManyTiles},
	}

	for index, s := range specs {
		_, err := NewPlan(s.w, s.h, s.f)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

// Verify that tiles cover frame exactly with no overlaps.
func assertPartition(t *testing.T, tiles []types.Region, frame types.Region) {
	t.Helper()

	area := 0
	for i, a := range tiles {
		if a.Empty() {
			t.Fatalf("tile %d is empty: %v", i, a)
		}
		if a.Intersect(frame) != a {
			t.Fatalf("tile %d exceeds frame %v: %v", i, frame, a)
		}
		area += a.Dx() * a.Dy()

		for j := i + 1; j < len(tiles); j++ {
			if !a.Intersect(tiles[j]).Empty() {
				t.Fatalf("tiles %d and %d overlap: %v, %v", i, j, a, tiles[j])
			}
		}
	}

	if exp := frame.Dx() * frame.Dy(); area != exp {
		t.Fatalf("expected tiles to cover %d pixels; got %d", exp, area)
	}
}
