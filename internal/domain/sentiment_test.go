package domain

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnalyzeMood_Positive(t *testing.T) {
	for s := 7; s <= 10; s++ {
		got := AnalyzeMood(s)
		want := 0.5 + float64(s-7)*0.17
		if got.Label != SentimentPositive || !approx(got.Score, want) {
			t.Fatalf("AnalyzeMood(%d) = %+v; want positive %.4f", s, got, want)
		}
	}
	if got := AnalyzeMood(10); !approx(got.Score, 1.01) {
		t.Fatalf("AnalyzeMood(10).Score = %v; want 1.01", got.Score)
	}
}

func TestAnalyzeMood_Negative(t *testing.T) {
	for s := 1; s <= 4; s++ {
		got := AnalyzeMood(s)
		want := -0.5 - float64(4-s)*0.17
		if got.Label != SentimentNegative || !approx(got.Score, want) {
			t.Fatalf("AnalyzeMood(%d) = %+v; want negative %.4f", s, got, want)
		}
	}
	if got := AnalyzeMood(1); !approx(got.Score, -1.01) {
		t.Fatalf("AnalyzeMood(1).Score = %v; want -1.01", got.Score)
	}
}

func TestAnalyzeMood_Neutral(t *testing.T) {
	cases := map[int]float64{5: -0.165, 6: 0.165}
	for s, want := range cases {
		got := AnalyzeMood(s)
		if got.Label != SentimentNeutral || !approx(got.Score, want) {
			t.Fatalf("AnalyzeMood(%d) = %+v; want neutral %v", s, got, want)
		}
	}
}

func TestValidMoodScore(t *testing.T) {
	for _, s := range []int{0, -1, 11, 100} {
		if ValidMoodScore(s) {
			t.Fatalf("ValidMoodScore(%d) = true; want false", s)
		}
	}
	for s := 1; s <= 10; s++ {
		if !ValidMoodScore(s) {
			t.Fatalf("ValidMoodScore(%d) = false; want true", s)
		}
	}
}
