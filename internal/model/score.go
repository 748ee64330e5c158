package model

// ScoreResult is the outcome of scoring one URL.
type ScoreResult struct {
	// Score is the sum of the weights of every triggered rule.
	Score int `json:"score"`

	// Reasons holds one entry per triggered rule, in rule evaluation order.
	Reasons []string `json:"reasons"`

	// Label is derived from Score by LabelForScore.
	Label Label `json:"label"`
}

// NewScoreResult builds a result from the triggered reasons and their summed weight.
// The label is always recomputed from the score.
func NewScoreResult(score int, reasons []string) ScoreResult {
	if reasons == nil {
		reasons = []string{}
	}
	return ScoreResult{
		Score:   score,
		Reasons: reasons,
		Label:   LabelForScore(score),
	}
}

// HasReason reports whether reason was recorded.
func (r ScoreResult) HasReason(reason string) bool {
	for _, got := range r.Reasons {
		if got == reason {
			return true
		}
	}
	return false
}
