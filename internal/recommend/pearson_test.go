package recommend

import (
	"math"
	"testing"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{
			name: "perfect positive",
			x:    []float64{1, 2, 3, 4},
			y:    []float64{2, 4, 6, 8},
			want: 1,
		},
		{
			name: "perfect negative",
			x:    []float64{1, 2, 3, 4},
			y:    []float64{8, 6, 4, 2},
			want: -1,
		},
		{
			name: "known value",
			x:    []float64{1, 2, 3, 4, 5},
			y:    []float64{2, 1, 4, 3, 5},
			want: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pearson(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("pearson = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPearson_Undefined(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"empty", nil, nil},
		{"single pair", []float64{1}, []float64{2}},
		{"zero variance x", []float64{5, 5, 5}, []float64{1, 2, 3}},
		{"zero variance y", []float64{1, 2, 3}, []float64{7, 7, 7}},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pearson(tt.x, tt.y); !math.IsNaN(got) {
				t.Errorf("pearson = %v, want NaN", got)
			}
		})
	}
}

func TestPairedColumns(t *testing.T) {
	a := map[int]float64{1: 10, 2: 20, 3: 30}
	b := map[int]float64{2: 200, 3: 300, 4: 400}

	x, y := pairedColumns(a, b)
	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("len = %d,%d, want 2,2", len(x), len(y))
	}
	// Pair order is unspecified; check the pairing itself.
	for i := range x {
		if y[i] != x[i]*10 {
			t.Errorf("pair (%v, %v) not aligned", x[i], y[i])
		}
	}
}

func TestPairedColumns_NoOverlap(t *testing.T) {
	x, y := pairedColumns(map[int]float64{1: 1}, map[int]float64{2: 2})
	if len(x) != 0 || len(y) != 0 {
		t.Errorf("len = %d,%d, want 0,0", len(x), len(y))
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.123, 0.12},
		{0.125, 0.13},
		{-0.456, -0.46},
		{7, 7},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !math.IsNaN(round2(math.NaN())) {
		t.Error("round2(NaN) should stay NaN")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the fellowship of the ring", "The fellowship of the ring"},
		{"dune", "Dune"},
		{"émile", "Émile"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
