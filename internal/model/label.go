package model

import "fmt"

// Label is the risk tier assigned to a scored URL.
// Tiers are ordered so that a higher value always means higher risk.
type Label int

const (
	// LabelSafe is assigned to scores below CautionThreshold.
	LabelSafe Label = iota

	// LabelCaution is assigned to scores in [CautionThreshold, HighRiskThreshold).
	LabelCaution

	// LabelHighRisk is assigned to scores at or above HighRiskThreshold.
	LabelHighRisk
)

// Score thresholds for the label step function.
const (
	// CautionThreshold is the lowest score labelled Caution.
	CautionThreshold = 20

	// HighRiskThreshold is the lowest score labelled High Risk.
	HighRiskThreshold = 50
)

// LabelForScore maps a summed score to its label.
func LabelForScore(score int) Label {
	switch {
	case score >= HighRiskThreshold:
		return LabelHighRisk
	case score >= CautionThreshold:
		return LabelCaution
	default:
		return LabelSafe
	}
}

// String returns the display name of the label.
func (l Label) String() string {
	switch l {
	case LabelSafe:
		return "Safe"
	case LabelCaution:
		return "Caution"
	case LabelHighRisk:
		return "High Risk"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the label as its display name.
func (l Label) MarshalText() ([]byte, error) {
	switch l {
	case LabelSafe, LabelCaution, LabelHighRisk:
		return []byte(l.String()), nil
	default:
		return nil, fmt.Errorf("unknown label %d", int(l))
	}
}

// UnmarshalText decodes a display name back into a Label.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel returns the Label with the given display name.
func ParseLabel(s string) (Label, error) {
	switch s {
	case "Safe":
		return LabelSafe, nil
	case "Caution":
		return LabelCaution, nil
	case "High Risk":
		return LabelHighRisk, nil
	default:
		return LabelSafe, fmt.Errorf("unknown label %q", s)
	}
}
