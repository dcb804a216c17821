package workoutService

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/internal/entity"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const maxSessionIDLength = 128

// CheckSession reports whether frames may still be recorded under sessionID
// without registering anything. The empty id is always accepted.
func (s *workoutService) CheckSession(ctx context.Context, sessionID string) error {
	if !validSessionID(sessionID) {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
		}).Warn("Rejected malformed session id")
		return workout.ErrInvalidSessionID
	}
	if sessionID == "" {
		return nil
	}

	if session, ok := s.registry.Get(sessionID); ok {
		if !session.Active() {
			return workout.ErrSessionEnded
		}
		return nil
	}
	if s.archivedAsEnded(ctx, sessionID) {
		return workout.ErrSessionEnded
	}
	return nil
}

func (s *workoutService) GetOrCreateSession(ctx context.Context, sessionID string, exerciseType string) (*Session, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if !validSessionID(sessionID) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
		}).Warn("Rejected malformed session id")
		return nil, workout.ErrInvalidSessionID
	}

	// an id swept out of memory after ending must not come back as a new session
	if sessionID != "" {
		if _, ok := s.registry.Get(sessionID); !ok && s.archivedAsEnded(ctx, sessionID) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
			}).Warn("Rejected frame for archived session")
			return nil, workout.ErrSessionEnded
		}
	}

	session, created := s.registry.GetOrCreate(sessionID, exerciseType)
	if created {
		s.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"session_id":    session.ID(),
			"exercise_type": exerciseType,
		}).Info("Workout session started")
	}

	return session, nil
}

func (s *workoutService) UpdateSession(ctx context.Context, session *Session, keypoints entity.Keypoints, analysis entity.FrameFeedback) (*entity.SessionSnapshot, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if session == nil {
		return nil, workout.ErrSessionNotFound
	}

	snapshot, err := session.Update(keypoints, analysis)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID(),
			"error":      err.Error(),
		}).Warn("Failed to update workout session")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"session_id":   snapshot.SessionID,
		"total_frames": snapshot.TotalFrames,
		"overall":      analysis.Overall,
	}).Debug("Workout session updated")

	return &snapshot, nil
}

func (s *workoutService) GetSessionSummary(ctx context.Context, sessionID string) (*entity.SessionSummary, error) {
	if session, ok := s.registry.Get(sessionID); ok {
		summary := session.Summary()
		return &summary, nil
	}
	return s.loadArchived(ctx, sessionID)
}

func (s *workoutService) EndSession(ctx context.Context, sessionID string) (*entity.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, ok := s.registry.Get(sessionID)
	if !ok {
		// already swept out of memory; ending is idempotent
		return s.loadArchived(ctx, sessionID)
	}

	summary := session.End()
	if err := s.archive(ctx, summary); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to archive ended session")
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"session_id":   sessionID,
		"total_frames": summary.TotalFrames,
		"form_quality": summary.FormQuality,
	}).Info("Workout session ended")

	return &summary, nil
}

// SweepIdle ends and forgets every session whose last activity is older
// than maxIdle. Sessions that fail to archive stay registered so the next
// sweep retries them.
func (s *workoutService) SweepIdle(ctx context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	now := s.registry.Now()
	swept := 0

	s.registry.Range(func(session *Session) bool {
		if ctx.Err() != nil {
			return false
		}
		if now.Sub(session.LastActivity()) <= maxIdle {
			return true
		}

		summary := session.End()
		if err := s.archive(ctx, summary); err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": session.ID(),
				"error":      err.Error(),
			}).Warn("Keeping idle session, archive failed")
			return true
		}

		if s.registry.Delete(session) {
			swept++
		}
		return true
	})

	if swept > 0 {
		s.log.WithFields(logrus.Fields{
			"swept":     swept,
			"remaining": s.registry.Len(),
		}).Info("Swept idle workout sessions")
	}
	return swept
}

func (s *workoutService) archive(ctx context.Context, summary entity.SessionSummary) error {
	requestID := contextPkg.GetRequestID(ctx)

	if s.workoutRepository != nil {
		repo, err := s.workoutRepository.NewClient(true)
		if err != nil {
			return fmt.Errorf("%w: %v", workout.ErrArchiveSession, err)
		}
		defer repo.Rollback()

		if err := repo.Session.UpsertSession(ctx, summary); err != nil {
			return fmt.Errorf("%w: %v", workout.ErrArchiveSession, err)
		}
		if err := repo.Session.ReplaceIssues(ctx, summary.SessionID, summary.TopIssues); err != nil {
			return fmt.Errorf("%w: %v", workout.ErrArchiveSession, err)
		}
		if err := repo.Commit(); err != nil {
			return fmt.Errorf("%w: %v", workout.ErrArchiveSession, err)
		}
	}

	if s.summaryCache != nil {
		if err := s.summaryCache.SetSessionSummary(ctx, summary, s.cacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": summary.SessionID,
				"error":      err.Error(),
			}).Warn("Failed to cache session summary")
		}
	}

	return nil
}

func (s *workoutService) loadArchived(ctx context.Context, sessionID string) (*entity.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.summaryCache != nil {
		summary, err := s.summaryCache.GetSessionSummary(ctx, sessionID)
		if err == nil {
			return &summary, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Summary cache lookup failed")
		}
	}

	if s.workoutRepository == nil {
		return nil, workout.ErrSessionNotFound
	}

	repo, err := s.workoutRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	summary, err := repo.Session.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	issues, err := repo.Session.GetIssuesBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary.TopIssues = issues

	if s.summaryCache != nil {
		if err := s.summaryCache.SetSessionSummary(ctx, summary, s.cacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to backfill summary cache")
		}
	}

	return &summary, nil
}

// archivedAsEnded looks the id up in the cache and the archive. Lookup
// failures count as not archived.
func (s *workoutService) archivedAsEnded(ctx context.Context, sessionID string) bool {
	if s.summaryCache == nil && s.workoutRepository == nil {
		return false
	}

	summary, err := s.loadArchived(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, workout.ErrSessionNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Archive lookup failed, treating session as new")
		}
		return false
	}
	return summary.Completed
}

// validSessionID accepts the empty id (one is generated) and any printable
// id without whitespace or path separators.
func validSessionID(id string) bool {
	if id == "" {
		return true
	}
	if utf8.RuneCountInString(id) > maxSessionIDLength || strings.ContainsRune(id, '/') {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
