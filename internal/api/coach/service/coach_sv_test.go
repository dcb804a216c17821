package coachService

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/AChakka/LiftMate/internal/api/coach"
	workoutService "github.com/AChakka/LiftMate/internal/api/workout/service"
	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/AChakka/LiftMate/pkg/openai"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/sirupsen/logrus"
)

type fakeChat struct {
	reply          string
	err            error
	history        []openai.ConversationMessage
	sessionContext string
}

func (f *fakeChat) ProcessConversation(ctx context.Context, userMessage string, history []openai.ConversationMessage, sessionContext string) (string, error) {
	f.history = history
	f.sessionContext = sessionContext
	return f.reply, f.err
}

type fakeGemini struct {
	reply    string
	err      error
	mimeType string
}

func (f *fakeGemini) AnalyzeImage(ctx context.Context, image []byte, mimeType string, prompt string) (string, error) {
	f.mimeType = mimeType
	return f.reply, f.err
}

func (f *fakeGemini) Close() error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newWorkoutService() workoutService.IWorkoutService {
	return workoutService.NewWorkoutService(testLogger(), workoutService.NewRegistry(), nil, nil, 0)
}

func TestCoachService_Chat(t *testing.T) {
	ctx := context.Background()
	ws := newWorkoutService()

	session, _ := ws.GetOrCreateSession(ctx, "s1", "squat")
	for i := 0; i < 3; i++ {
		f := entity.FrameFeedback{Issues: []string{"Keep your chest up"}, Overall: entity.VerdictFair}
		if _, err := ws.UpdateSession(ctx, session, entity.Keypoints{}, f); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	chat := &fakeChat{reply: "You got this, bro!"}
	svc := NewCoachService(testLogger(), chat, nil, formcheck.NewAnalyzer(), utils.New(), ws)

	res, err := svc.Chat(ctx, coach.ChatRequest{
		Message:   "  how was my set?  ",
		History:   []coach.ChatMessage{{Role: "user", Content: "yo"}},
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.Reply != "You got this, bro!" {
		t.Errorf("unexpected reply %q", res.Reply)
	}
	if len(chat.history) != 1 || chat.history[0].Content != "yo" {
		t.Errorf("history not forwarded: %+v", chat.history)
	}
	if !strings.Contains(chat.sessionContext, "3 frames") || !strings.Contains(chat.sessionContext, "Keep your chest up") {
		t.Errorf("expected session context, got %q", chat.sessionContext)
	}

	if _, err := svc.Chat(ctx, coach.ChatRequest{Message: "hi", SessionID: "unknown"}); err != nil {
		t.Errorf("unknown session should not fail the chat: %v", err)
	}
	if chat.sessionContext != "" {
		t.Errorf("expected no session context, got %q", chat.sessionContext)
	}
}

func TestCoachService_ChatErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		chat     openai.IChatGPT
		message  string
		expected error
	}{
		{name: "blank message", chat: &fakeChat{reply: "ok"}, message: "   ", expected: coach.ErrEmptyMessage},
		{name: "not configured", chat: nil, message: "hi", expected: coach.ErrCoachUnavailable},
		{name: "upstream failure", chat: &fakeChat{err: errors.New("429")}, message: "hi", expected: coach.ErrCoachFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCoachService(testLogger(), tt.chat, nil, formcheck.NewAnalyzer(), utils.New(), newWorkoutService())
			if _, err := svc.Chat(ctx, coach.ChatRequest{Message: tt.message}); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCoachService_ClassifyExercise(t *testing.T) {
	ctx := context.Background()

	g := &fakeGemini{reply: "```json\n{\"exercise\": \"Squat\", \"confidence\": 0.92}\n```"}
	svc := NewCoachService(testLogger(), nil, g, formcheck.NewAnalyzer(), utils.New(), newWorkoutService())

	res, err := svc.ClassifyExercise(ctx, pngFrame(t))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Exercise != "squat" || res.Confidence != 0.92 || !res.Supported {
		t.Errorf("unexpected classification %+v", res)
	}
	if g.mimeType != "image/png" {
		t.Errorf("expected image/png, got %s", g.mimeType)
	}

	g.reply = `{"exercise":"deadlift","confidence":1.4}`
	res, err = svc.ClassifyExercise(ctx, pngFrame(t))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Supported || res.Confidence != 1 {
		t.Errorf("unexpected classification %+v", res)
	}
}

func TestCoachService_ClassifyExerciseErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		gemini   *fakeGemini
		image    []byte
		expected error
	}{
		{name: "not configured", gemini: nil, image: pngFrame(t), expected: coach.ErrClassifierUnavailable},
		{name: "not an image", gemini: &fakeGemini{}, image: []byte("nope"), expected: coach.ErrInvalidImage},
		{name: "upstream failure", gemini: &fakeGemini{err: errors.New("quota")}, image: pngFrame(t), expected: coach.ErrClassificationFailed},
		{name: "prose reply", gemini: &fakeGemini{reply: "looks like a squat"}, image: pngFrame(t), expected: coach.ErrClassificationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCoachService(testLogger(), nil, nil, formcheck.NewAnalyzer(), utils.New(), newWorkoutService())
			if tt.gemini != nil {
				svc = NewCoachService(testLogger(), nil, tt.gemini, formcheck.NewAnalyzer(), utils.New(), newWorkoutService())
			}
			if _, err := svc.ClassifyExercise(ctx, tt.image); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
