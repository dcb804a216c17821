package entity

type Verdict string

const (
	VerdictGood    Verdict = "good"
	VerdictFair    Verdict = "fair"
	VerdictPoor    Verdict = "poor"
	VerdictUnknown Verdict = "unknown"
)

// Acceptable reports whether a frame with this verdict counts toward form quality.
func (v Verdict) Acceptable() bool {
	return v == VerdictGood || v == VerdictFair
}

// FrameFeedback is the analyzer's verdict for a single frame.
type FrameFeedback struct {
	Issues       []string           `json:"issues"`
	Overall      Verdict            `json:"overall"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

func (f FrameFeedback) Clone() FrameFeedback {
	out := FrameFeedback{
		Issues:  make([]string, len(f.Issues)),
		Overall: f.Overall,
	}
	copy(out.Issues, f.Issues)
	if f.Measurements != nil {
		out.Measurements = make(map[string]float64, len(f.Measurements))
		for k, v := range f.Measurements {
			out.Measurements[k] = v
		}
	}
	return out
}
