package layout

import (
	"math/rand"
	"testing"
)

func TestPackerRowBreakOnWidth(t *testing.T) {
	// Spec scenario: [(500,500),(500,500),(1200,500)] with maxRowWidth
	// 1000 and no gap. The first two fill the row exactly; the third
	// breaks to a new row.
	p := NewPacker(0, 0, 0, 1000)

	a := p.Place(500, 500)
	b := p.Place(500, 500)
	c := p.Place(1200, 500)

	if a.X != 0 || a.Y != 0 {
		t.Errorf("first placement = %+v, want origin", a)
	}
	if b.X != 500 || b.Y != 0 {
		t.Errorf("second placement = %+v, want (500,0)", b)
	}
	if c.X != 0 || c.Y != 500 {
		t.Errorf("third placement = %+v, want new row at (0,500)", c)
	}
}

func TestPackerGapAdvancesCursor(t *testing.T) {
	p := NewPacker(100, 50, 20, 5000)

	a := p.Place(300, 300)
	b := p.Place(300, 300)

	if a.X != 100 || a.Y != 50 {
		t.Errorf("first placement = %+v, want (100,50)", a)
	}
	if b.X != 420 {
		t.Errorf("second placement x = %g, want 420 (100+300+20)", b.X)
	}
}

func TestPackerRowBreakOnHeightDivergence(t *testing.T) {
	tests := []struct {
		name       string
		firstH     float64
		secondH    float64
		wantNewRow bool
	}{
		{
			name:   "equal heights stay in row",
			firstH: 500, secondH: 500,
			wantNewRow: false,
		},
		{
			name:   "mild divergence stays in row",
			firstH: 500, secondH: 400, // diff 100, avg 450, threshold 225
			wantNewRow: false,
		},
		{
			name:   "strong divergence breaks row",
			firstH: 500, secondH: 100, // diff 400, avg 300, threshold 150
			wantNewRow: true,
		},
		{
			name:   "much taller item breaks row",
			firstH: 200, secondH: 900,
			wantNewRow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacker(0, 0, 10, 10000)
			first := p.Place(200, tt.firstH)
			second := p.Place(200, tt.secondH)

			newRow := second.Y > first.Y
			if newRow != tt.wantNewRow {
				t.Errorf("second placement = %+v after %+v, new row = %v, want %v",
					second, first, newRow, tt.wantNewRow)
			}
		})
	}
}

func TestPackerOversizedItemGetsOwnRow(t *testing.T) {
	p := NewPacker(0, 0, 10, 1000)

	p.Place(400, 400)
	wide := p.Place(5000, 400) // alone exceeds maxRowWidth; placed anyway

	if wide.X != 0 {
		t.Errorf("oversized placement x = %g, want 0 (own row)", wide.X)
	}
	if wide.Y != 410 {
		t.Errorf("oversized placement y = %g, want 410", wide.Y)
	}
	if wide.Width != 5000 {
		t.Errorf("oversized width = %g, want 5000 (never split)", wide.Width)
	}
}

func TestPackerNewRowClearsBelowTallestRowSoFar(t *testing.T) {
	p := NewPacker(0, 0, 10, 1000)

	p.Place(600, 300)
	tall := p.Place(300, 320) // same row, taller
	next := p.Place(600, 300) // width break

	wantY := tall.Y + tall.Height + 10
	if next.Y != wantY {
		t.Errorf("new row y = %g, want %g (below global max bottom)", next.Y, wantY)
	}
}

func TestPackerNextPositionIsIdempotentUntilRegister(t *testing.T) {
	p := NewPacker(0, 0, 10, 1000)
	p.Place(200, 200)

	first := p.NextPosition(300, 200)
	second := p.NextPosition(300, 200)
	if first != second {
		t.Errorf("NextPosition() = %+v then %+v, want identical until Register", first, second)
	}
}

// Property: no two registered placements ever overlap, for random
// sequences of sizes.
func TestPackerNeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		p := NewPacker(0, 0, 25, 2000)

		n := 10 + rng.Intn(40)
		for i := 0; i < n; i++ {
			w := 50 + rng.Float64()*1500
			h := 50 + rng.Float64()*1500
			p.Place(w, h)
		}

		placed := p.Placed()
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				if placed[i].Bounds().Intersects(placed[j].Bounds()) {
					t.Fatalf("run %d: placements %d and %d overlap: %+v vs %+v",
						run, i, j, placed[i], placed[j])
				}
			}
		}
	}
}

func TestPackerCustomHeightDivergence(t *testing.T) {
	p := NewPacker(0, 0, 10, 10000)
	p.HeightDivergence = 2 // effectively disables the heuristic

	first := p.Place(200, 500)
	second := p.Place(200, 100)

	if second.Y != first.Y {
		t.Errorf("with relaxed divergence, second placement = %+v, want same row as %+v", second, first)
	}
}
