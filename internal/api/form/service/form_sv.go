package formService

import (
	"errors"
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/internal/api/form"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/pose"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *formService) AnalyzeFrame(ctx context.Context, image []byte, exerciseType string, sessionID string) (*form.AnalyzeFormResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(image) == 0 {
		return nil, form.ErrNoImage
	}
	if exerciseType == "" {
		return nil, form.ErrNoExerciseType
	}
	if !s.analyzer.Supports(exerciseType) {
		return nil, form.ErrUnsupportedExercise
	}

	_, format, err := s.utils.DecodeImageConfig(image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected undecodable frame")
		return nil, fmt.Errorf("%w: %v", form.ErrInvalidImage, err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"format":     format,
		"bytes":      len(image),
	}).Debug("Analyzing frame")

	if err := s.workoutService.CheckSession(ctx, sessionID); err != nil {
		return nil, err
	}

	keypoints, err := s.estimator.Extract(ctx, image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Pose estimation failed")
		if errors.Is(err, pose.ErrNoDetection) {
			return nil, fmt.Errorf("%w: no person detected", form.ErrPoseEstimation)
		}
		return nil, fmt.Errorf("%w: %v", form.ErrPoseEstimation, err)
	}

	session, err := s.workoutService.GetOrCreateSession(ctx, sessionID, exerciseType)
	if err != nil {
		return nil, err
	}

	analysis := s.analyzer.Analyze(keypoints, exerciseType)

	snapshot, err := s.workoutService.UpdateSession(ctx, session, keypoints, analysis)
	if err != nil {
		return nil, err
	}

	return &form.AnalyzeFormResponse{
		Analysis:  analysis,
		Keypoints: keypoints,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Session:   snapshot,
	}, nil
}

func (s *formService) SupportsExercise(exerciseType string) bool {
	return s.analyzer.Supports(exerciseType)
}

func (s *formService) Version() form.VersionResponse {
	return form.VersionResponse{
		APIVersion:         APIVersion,
		ModelVersion:       s.modelVersion,
		SupportedExercises: s.analyzer.Exercises(),
	}
}
