package ranking

import (
	"errors"
	"testing"
)

func TestTopK_OrdersByProbability(t *testing.T) {
	got, err := TopK(map[string]float64{"A": 0.5, "B": 0.3, "C": 0.2}, 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := []Prediction{
		{Label: "A", Probability: 0.5},
		{Label: "B", Probability: 0.3},
		{Label: "C", Probability: 0.2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTopK_EmptyDistribution(t *testing.T) {
	if _, err := TopK(map[string]float64{}, 3); !errors.Is(err, ErrEmptyDistribution) {
		t.Fatalf("expected ErrEmptyDistribution, got %v", err)
	}
}

func TestTopK_TiesBrokenByLabel(t *testing.T) {
	got, err := TopK(map[string]float64{"delta": 0.25, "alpha": 0.25, "charlie": 0.25, "bravo": 0.25}, 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	wantOrder := []string{"alpha", "bravo", "charlie"}
	for i, w := range wantOrder {
		if got[i].Label != w {
			t.Fatalf("position %d: expected %q, got %q", i, w, got[i].Label)
		}
	}
}

func TestTopK_FewerLabelsThanK(t *testing.T) {
	got, err := TopK(map[string]float64{"A": 0.9, "B": 0.1}, 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected min(k, labels)=2 entries, got %d", len(got))
	}
}

func TestTopK_NonIncreasing(t *testing.T) {
	got, err := TopK(map[string]float64{"a": 0.1, "b": 0.4, "c": 0.05, "d": 0.45}, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Probability > got[i-1].Probability {
			t.Fatalf("order not non-increasing: %+v", got)
		}
	}
}

func TestPercent_Truncates(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.349, 34},
		{0.999, 99},
		{1.0, 100},
		{0.0, 0},
		{0.5, 50},
		{-0.2, 0},
		{1.7, 100},
	}
	for _, tc := range cases {
		if got := Percent(tc.in); got != tc.want {
			t.Fatalf("Percent(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
