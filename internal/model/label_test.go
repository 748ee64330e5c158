package model

import (
	"encoding/json"
	"testing"
)

// TestLabelString tests the String method of Label.
func TestLabelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		label    Label
		expected string
	}{
		{LabelSafe, "Safe"},
		{LabelCaution, "Caution"},
		{LabelHighRisk, "High Risk"},
		{Label(42), "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.label.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.label.String(), tc.expected)
			}
		})
	}
}

// TestLabelForScore tests the thresholds of the label step function.
func TestLabelForScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score    int
		expected Label
	}{
		{0, LabelSafe},
		{19, LabelSafe},
		{20, LabelCaution},
		{49, LabelCaution},
		{50, LabelHighRisk},
		{130, LabelHighRisk},
	}

	for _, tc := range testCases {
		if got := LabelForScore(tc.score); got != tc.expected {
			t.Errorf("LabelForScore(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}
}

// TestLabelForScoreMonotonic verifies that a higher score never maps to a lower tier.
func TestLabelForScoreMonotonic(t *testing.T) {
	t.Parallel()

	prev := LabelForScore(0)
	for score := 1; score <= 200; score++ {
		got := LabelForScore(score)
		if got < prev {
			t.Fatalf("label dropped from %v to %v at score %d", prev, got, score)
		}
		prev = got
	}
}

// TestLabelJSON tests that labels serialize as their display names.
func TestLabelJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals display name", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(NewScoreResult(55, []string{"a"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := `{"score":55,"reasons":["a"],"label":"High Risk"}`
		if string(data) != expected {
			t.Errorf("got %s, expected %s", data, expected)
		}
	})

	t.Run("unmarshals display name", func(t *testing.T) {
		t.Parallel()

		var res ScoreResult
		if err := json.Unmarshal([]byte(`{"score":20,"reasons":[],"label":"Caution"}`), &res); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Label != LabelCaution {
			t.Errorf("expected Caution, got %v", res.Label)
		}
	})

	t.Run("rejects unknown name", func(t *testing.T) {
		t.Parallel()

		var l Label
		if err := l.UnmarshalText([]byte("Dangerous")); err == nil {
			t.Error("expected error for unknown label")
		}
	})

	t.Run("nil reasons marshal as empty list", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(NewScoreResult(0, nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := `{"score":0,"reasons":[],"label":"Safe"}`
		if string(data) != expected {
			t.Errorf("got %s, expected %s", data, expected)
		}
	})
}
