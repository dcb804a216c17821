package coachService

import (
	"fmt"
	"strings"

	"github.com/AChakka/LiftMate/internal/api/coach"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const classifyPrompt = `You are a strength coach looking at a single gym photo.
Identify the exercise being performed. Answer with ONLY valid JSON:
{"exercise": "<lowercase exercise name, e.g. squat, deadlift, bench press, lunge>", "confidence": <number between 0 and 1>}
If no exercise is visible, answer {"exercise": "none", "confidence": 0}.`

type classification struct {
	Exercise   string  `json:"exercise"`
	Confidence float64 `json:"confidence"`
}

func (s *coachService) ClassifyExercise(ctx context.Context, image []byte) (*coach.ClassifyExerciseResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.gemini == nil {
		return nil, coach.ErrClassifierUnavailable
	}

	_, format, err := s.utils.DecodeImageConfig(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coach.ErrInvalidImage, err)
	}

	raw, err := s.gemini.AnalyzeImage(ctx, image, "image/"+format, classifyPrompt)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Exercise classification failed")
		return nil, fmt.Errorf("%w: %v", coach.ErrClassificationFailed, err)
	}

	result, err := parseClassification(raw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"raw":        raw,
		}).Warn("Unparseable classification")
		return nil, fmt.Errorf("%w: %v", coach.ErrClassificationFailed, err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"exercise":   result.Exercise,
		"confidence": result.Confidence,
	}).Debug("Exercise classified")

	return &coach.ClassifyExerciseResponse{
		Exercise:   result.Exercise,
		Confidence: result.Confidence,
		Supported:  s.analyzer.Supports(result.Exercise),
	}, nil
}

// parseClassification accepts bare JSON or JSON inside a markdown code fence.
func parseClassification(raw string) (classification, error) {
	raw = strings.TrimSpace(raw)
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var c classification
	if err := jsoniter.UnmarshalFromString(raw, &c); err != nil {
		return classification{}, err
	}

	c.Exercise = strings.ToLower(strings.TrimSpace(c.Exercise))
	if c.Exercise == "" {
		return classification{}, fmt.Errorf("classification has no exercise")
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c, nil
}
