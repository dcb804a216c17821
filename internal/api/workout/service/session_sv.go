package workoutService

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/geometry"
)

const (
	// an issue is common once it shows up in more than this share of frames
	commonIssueRatio = 0.15
	// and at least this many times
	commonIssueFloor = 1.0

	topIssueLimit         = 3
	topIssueMinPercentage = 25.0
)

// Session aggregates per-frame feedback for one workout. Updates are
// serialized by the session's own lock; readers never block each other.
type Session struct {
	mu sync.RWMutex

	id           string
	exerciseType string
	startedAt    time.Time
	lastUpdateAt time.Time
	endedAt      time.Time
	active       bool

	frames      []entity.FrameRecord
	maxFrames   int
	totalFrames int
	acceptable  int

	issueCounts  map[string]int
	commonIssues map[string]entity.IssueStat

	now func() time.Time
}

func newSession(id, exerciseType string, maxFrames int, now func() time.Time) *Session {
	started := now()
	return &Session{
		id:           id,
		exerciseType: exerciseType,
		startedAt:    started,
		lastUpdateAt: started,
		active:       true,
		maxFrames:    maxFrames,
		issueCounts:  make(map[string]int),
		commonIssues: make(map[string]entity.IssueStat),
		now:          now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ExerciseType() string {
	return s.exerciseType
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// LastActivity is the time of the latest update, or the end time once the
// session has ended.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity()
}

// Update records one analyzed frame and returns the refreshed rolling stats.
func (s *Session) Update(keypoints entity.Keypoints, analysis entity.FrameFeedback) (entity.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return entity.SessionSnapshot{}, workout.ErrSessionEnded
	}

	ts := s.now()
	s.lastUpdateAt = ts
	s.frames = append(s.frames, entity.FrameRecord{
		Timestamp: ts,
		Keypoints: keypoints.Clone(),
		Analysis:  analysis.Clone(),
	})
	s.evict()

	s.totalFrames++
	if analysis.Overall.Acceptable() {
		s.acceptable++
	}
	for _, issue := range analysis.Issues {
		s.issueCounts[issue]++
	}
	s.recomputeCommonIssues()

	return entity.SessionSnapshot{
		SessionID:    s.id,
		Duration:     geometry.Round(ts.Sub(s.startedAt).Seconds(), 1),
		TotalFrames:  s.totalFrames,
		CommonIssues: s.copyCommonIssues(),
	}, nil
}

// Summary is read-only; calling it repeatedly without updates in between
// yields the same result.
func (s *Session) Summary() entity.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary()
}

// End marks the session inactive and returns its final summary. Ending an
// already ended session returns the same summary again.
func (s *Session) End() entity.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.active = false
		s.endedAt = s.now()
	}
	return s.summary()
}

// Frames returns a copy of the retained frame history, oldest first.
func (s *Session) Frames() []entity.FrameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.FrameRecord, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *Session) lastActivity() time.Time {
	if !s.active {
		return s.endedAt
	}
	return s.lastUpdateAt
}

func (s *Session) evict() {
	if s.maxFrames <= 0 || len(s.frames) <= s.maxFrames {
		return
	}
	drop := len(s.frames) - s.maxFrames
	copy(s.frames, s.frames[drop:])
	clear(s.frames[s.maxFrames:])
	s.frames = s.frames[:s.maxFrames]
}

func (s *Session) recomputeCommonIssues() {
	threshold := math.Max(commonIssueFloor, float64(s.totalFrames)*commonIssueRatio)

	common := make(map[string]entity.IssueStat, len(s.commonIssues))
	for issue, count := range s.issueCounts {
		if float64(count) > threshold {
			common[issue] = entity.IssueStat{
				Count:      count,
				Percentage: percentage(count, s.totalFrames),
			}
		}
	}
	s.commonIssues = common
}

func (s *Session) copyCommonIssues() map[string]entity.IssueStat {
	out := make(map[string]entity.IssueStat, len(s.commonIssues))
	for k, v := range s.commonIssues {
		out[k] = v
	}
	return out
}

func (s *Session) summary() entity.SessionSummary {
	var formQuality float64
	if s.totalFrames > 0 {
		formQuality = percentage(s.acceptable, s.totalFrames)
	}

	return entity.SessionSummary{
		SessionID:    s.id,
		ExerciseType: s.exerciseType,
		Duration:     geometry.Round(s.lastActivity().Sub(s.startedAt).Seconds(), 1),
		FormQuality:  formQuality,
		TotalFrames:  s.totalFrames,
		TopIssues:    topIssues(s.commonIssues),
		Completed:    !s.active,
		StartedAt:    s.startedAt,
		LastUpdateAt: s.lastUpdateAt,
	}
}

// topIssues orders common issues by count (ties by text), keeps the first
// three and drops any that do not exceed 25% of frames.
func topIssues(common map[string]entity.IssueStat) []entity.TopIssue {
	ranked := make([]entity.TopIssue, 0, len(common))
	for issue, stat := range common {
		ranked = append(ranked, entity.TopIssue{
			Issue:      issue,
			Count:      stat.Count,
			Percentage: stat.Percentage,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Issue < ranked[j].Issue
	})

	if len(ranked) > topIssueLimit {
		ranked = ranked[:topIssueLimit]
	}

	out := make([]entity.TopIssue, 0, len(ranked))
	for _, t := range ranked {
		if t.Percentage > topIssueMinPercentage {
			out = append(out, t)
		}
	}
	return out
}

func percentage(part, total int) float64 {
	return geometry.Round(float64(part)/float64(total)*100, 1)
}
