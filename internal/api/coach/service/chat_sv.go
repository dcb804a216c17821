package coachService

import (
	"fmt"
	"strings"

	"github.com/AChakka/LiftMate/internal/api/coach"
	"github.com/AChakka/LiftMate/internal/entity"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *coachService) Chat(ctx context.Context, req coach.ChatRequest) (*coach.ChatResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, coach.ErrEmptyMessage
	}
	if s.chatGPT == nil {
		return nil, coach.ErrCoachUnavailable
	}

	var sessionContext string
	if req.SessionID != "" {
		summary, err := s.workoutService.GetSessionSummary(ctx, req.SessionID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": req.SessionID,
				"error":      err.Error(),
			}).Warn("Chatting without session context")
		} else {
			sessionContext = describeSession(*summary)
		}
	}

	history := make([]openai.ConversationMessage, len(req.History))
	for i, msg := range req.History {
		history[i] = openai.ConversationMessage{Role: msg.Role, Content: msg.Content}
	}

	reply, err := s.chatGPT.ProcessConversation(ctx, message, history, sessionContext)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Coach chat failed")
		return nil, fmt.Errorf("%w: %v", coach.ErrCoachFailed, err)
	}

	return &coach.ChatResponse{Reply: reply}, nil
}

// describeSession renders a session summary as coach context.
func describeSession(summary entity.SessionSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The lifter's %s session so far: %d frames analysed over %.0f seconds, %.1f%% with acceptable form.",
		summary.ExerciseType, summary.TotalFrames, summary.Duration, summary.FormQuality)

	if len(summary.TopIssues) > 0 {
		sb.WriteString(" Most frequent form issues:")
		for _, issue := range summary.TopIssues {
			fmt.Fprintf(&sb, " %q (%.1f%% of frames);", issue.Issue, issue.Percentage)
		}
		sb.WriteString(" Reference these when giving form advice.")
	}
	return sb.String()
}
