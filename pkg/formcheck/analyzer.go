package formcheck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AChakka/LiftMate/internal/entity"
	"golang.org/x/text/cases"
)

const detectionFailurePrefix = "Could not detect all necessary joints: "

type Analyzer struct {
	rules map[string]RuleSet
}

// NewAnalyzer builds an analyzer over the given rule sets. With no arguments
// it registers the built-in exercises.
func NewAnalyzer(ruleSets ...RuleSet) IAnalyzer {
	if len(ruleSets) == 0 {
		ruleSets = []RuleSet{Squat()}
	}

	a := &Analyzer{rules: make(map[string]RuleSet, len(ruleSets))}
	for _, rs := range ruleSets {
		a.rules[normalizeExercise(rs.Exercise)] = rs
	}
	return a
}

func (a *Analyzer) Analyze(keypoints entity.Keypoints, exerciseType string) (feedback entity.FrameFeedback) {
	rs, ok := a.rules[normalizeExercise(exerciseType)]
	if !ok {
		return entity.FrameFeedback{
			Issues:  []string{fmt.Sprintf("Exercise type '%s' not supported", exerciseType)},
			Overall: entity.VerdictUnknown,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			feedback = DetectionFailure(fmt.Errorf("%v", r))
		}
	}()

	if err := keypoints.Validate(); err != nil {
		return DetectionFailure(err)
	}

	feedback, err := rs.Evaluate(keypoints, rs)
	if err != nil {
		return DetectionFailure(err)
	}
	return feedback
}

func (a *Analyzer) Supports(exerciseType string) bool {
	_, ok := a.rules[normalizeExercise(exerciseType)]
	return ok
}

func (a *Analyzer) Exercises() []string {
	names := make([]string, 0, len(a.rules))
	for name := range a.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectionFailure is the feedback reported when a frame cannot be analyzed.
func DetectionFailure(err error) entity.FrameFeedback {
	return entity.FrameFeedback{
		Issues:  []string{detectionFailurePrefix + err.Error()},
		Overall: entity.VerdictUnknown,
	}
}

func IsDetectionFailure(f entity.FrameFeedback) bool {
	return f.Overall == entity.VerdictUnknown &&
		len(f.Issues) == 1 &&
		strings.HasPrefix(f.Issues[0], detectionFailurePrefix)
}

// Verdict grades a frame by how many issues it produced.
func Verdict(issueCount int) entity.Verdict {
	switch {
	case issueCount > 3:
		return entity.VerdictPoor
	case issueCount > 1:
		return entity.VerdictFair
	default:
		return entity.VerdictGood
	}
}

func normalizeExercise(s string) string {
	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}
