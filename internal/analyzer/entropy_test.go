package analyzer

import (
	"math"
	"testing"
)

func TestEntropyUniform(t *testing.T) {
	var hist [256]int
	for i := range hist {
		hist[i] = 1
	}

	ent := Entropy(&hist, 256)
	if math.Abs(ent-8.0) > 1e-9 {
		t.Errorf("uniform distribution: expected 8.0 bits/byte, got %f", ent)
	}
}

func TestEntropySingleByte(t *testing.T) {
	var hist [256]int
	hist['a'] = 1000

	if ent := Entropy(&hist, 1000); ent != 0.0 {
		t.Errorf("single repeated byte: expected 0.0, got %f", ent)
	}
}

func TestEntropyEmpty(t *testing.T) {
	var hist [256]int
	if ent := Entropy(&hist, 0); ent != 0.0 {
		t.Errorf("empty input: expected 0.0, got %f", ent)
	}
}

func TestEntropyTwoSymbols(t *testing.T) {
	var hist [256]int
	hist['a'] = 500
	hist['b'] = 500

	ent := Entropy(&hist, 1000)
	if math.Abs(ent-1.0) > 1e-9 {
		t.Errorf("two equiprobable symbols: expected 1.0, got %f", ent)
	}
}
