package workoutRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/internal/entity"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type WorkoutSessionDB struct {
	ID           string          `db:"id"`
	ExerciseType sql.NullString  `db:"exercise_type"`
	Duration     sql.NullFloat64 `db:"duration"`
	FormQuality  sql.NullFloat64 `db:"form_quality"`
	TotalFrames  sql.NullInt64   `db:"total_frames"`
	Completed    sql.NullBool    `db:"completed"`
	StartedAt    time.Time       `db:"started_at"`
	LastUpdateAt time.Time       `db:"last_update_at"`
}

type SessionIssueDB struct {
	Issue       string          `db:"issue"`
	Occurrences sql.NullInt64   `db:"occurrences"`
	Percentage  sql.NullFloat64 `db:"percentage"`
}

func (r *sessionRepository) UpsertSession(c context.Context, summary entity.SessionSummary) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":             summary.SessionID,
		"exercise_type":  summary.ExerciseType,
		"duration":       summary.Duration,
		"form_quality":   summary.FormQuality,
		"total_frames":   summary.TotalFrames,
		"completed":      summary.Completed,
		"started_at":     summary.StartedAt.UTC(),
		"last_update_at": summary.LastUpdateAt.UTC(),
		"archived_at":    time.Now().UTC(),
	}

	query, args, err := sqlx.Named(queryUpsertSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpsertSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": summary.SessionID,
			"error":      err.Error(),
		}).Error("Database error when upserting session")
		return err
	}

	return nil
}

func (r *sessionRepository) ReplaceIssues(c context.Context, sessionID string, issues []entity.TopIssue) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryDeleteIssues, map[string]interface{}{"session_id": sessionID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteIssues")
		return err
	}
	if _, err := r.q.ExecContext(c, r.q.Rebind(query), args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Database error when clearing session issues")
		return err
	}

	for i, issue := range issues {
		argsKV := map[string]interface{}{
			"session_id":  sessionID,
			"sort_order":  i,
			"issue":       issue.Issue,
			"occurrences": issue.Count,
			"percentage":  issue.Percentage,
		}

		query, args, err := sqlx.Named(queryInsertIssue, argsKV)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to build SQL query for InsertIssue")
			return err
		}
		if _, err := r.q.ExecContext(c, r.q.Rebind(query), args...); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Error("Database error when inserting session issue")
			return err
		}
	}

	return nil
}

func (r *sessionRepository) GetSessionByID(c context.Context, id string) (entity.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(c)
	var row WorkoutSessionDB

	query, args, err := sqlx.Named(queryGetSessionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID named query preparation err")
		return entity.SessionSummary{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Debug("GetSessionByID no rows found")
			return entity.SessionSummary{}, workout.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID execution err")
		return entity.SessionSummary{}, err
	}

	return r.makeSummary(row), nil
}

func (r *sessionRepository) GetIssuesBySessionID(c context.Context, id string) ([]entity.TopIssue, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []SessionIssueDB

	query, args, err := sqlx.Named(queryGetIssuesBySessionID, map[string]interface{}{"session_id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetIssuesBySessionID named query preparation err")
		return nil, err
	}

	if err := r.q.SelectContext(c, &rows, r.q.Rebind(query), args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetIssuesBySessionID execution err")
		return nil, err
	}

	issues := make([]entity.TopIssue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, entity.TopIssue{
			Issue:      row.Issue,
			Count:      int(row.Occurrences.Int64),
			Percentage: row.Percentage.Float64,
		})
	}
	return issues, nil
}

func (r *sessionRepository) makeSummary(row WorkoutSessionDB) entity.SessionSummary {
	return entity.SessionSummary{
		SessionID:    row.ID,
		ExerciseType: row.ExerciseType.String,
		Duration:     row.Duration.Float64,
		FormQuality:  row.FormQuality.Float64,
		TotalFrames:  int(row.TotalFrames.Int64),
		Completed:    row.Completed.Bool,
		StartedAt:    row.StartedAt,
		LastUpdateAt: row.LastUpdateAt,
	}
}
