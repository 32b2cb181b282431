package core

import (
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{12.34, 1234},
		{0, 0},
		{0.005, 1},
		{-5, 0},       // persisted garbage normalizes to zero
		{math.Inf(1), 0}, // +Inf
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.out {
			t.Fatalf("CentsFromFloat(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 150}
	b := Money{Cents: 200}
	if got := a.Add(b).Cents; got != 350 {
		t.Errorf("Add = %d, want 350", got)
	}
	if got := a.Sub(b).Cents; got != -50 {
		t.Errorf("Sub = %d, want -50", got)
	}
	if got := b.Float(); got != 2.0 {
		t.Errorf("Float = %v, want 2.0", got)
	}
}
