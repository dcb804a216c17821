package workoutService

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/internal/entity"
)

const tooDeep = "Your Knees are bending too much. Don't go so DEEP."

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testKeypoints() entity.Keypoints {
	kp := make(entity.Keypoints, entity.LandmarkCount)
	for i := range kp {
		kp[i] = entity.Keypoint{float64(i), float64(i * 2)}
	}
	return kp
}

func feedback(overall entity.Verdict, issues ...string) entity.FrameFeedback {
	if issues == nil {
		issues = []string{}
	}
	return entity.FrameFeedback{Issues: issues, Overall: overall}
}

func TestSession_EndToEnd(t *testing.T) {
	clock := newFakeClock()
	registry := NewRegistry(WithClock(clock.Now))

	session, created := registry.GetOrCreate("s1", "squat")
	if !created {
		t.Fatal("expected a new session")
	}

	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)

		var f entity.FrameFeedback
		switch {
		case i < 5:
			f = feedback(entity.VerdictGood, tooDeep)
		case i < 8:
			f = feedback(entity.VerdictGood)
		default:
			f = feedback(entity.VerdictPoor, "a", "b", "c", "d")
		}

		snapshot, err := session.Update(testKeypoints(), f)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if snapshot.SessionID != "s1" {
			t.Errorf("expected session id s1, got %s", snapshot.SessionID)
		}
		if snapshot.Duration != float64(i+1) {
			t.Errorf("update %d: expected duration %d, got %v", i, i+1, snapshot.Duration)
		}
	}

	summary := session.Summary()

	expectedTop := []entity.TopIssue{{Issue: tooDeep, Count: 5, Percentage: 50.0}}
	if !reflect.DeepEqual(summary.TopIssues, expectedTop) {
		t.Errorf("expected top issues %v, got %v", expectedTop, summary.TopIssues)
	}
	if summary.FormQuality != 80.0 {
		t.Errorf("expected form quality 80.0, got %v", summary.FormQuality)
	}
	if summary.TotalFrames != 10 {
		t.Errorf("expected 10 frames, got %d", summary.TotalFrames)
	}
	if summary.Duration != 10 {
		t.Errorf("expected duration 10, got %v", summary.Duration)
	}
	if summary.ExerciseType != "squat" || summary.Completed {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestSession_CommonIssueThreshold(t *testing.T) {
	tests := []struct {
		name       string
		frames     int
		hits       int
		common     bool
		percentage float64
	}{
		{name: "single hit is never common", frames: 1, hits: 1, common: false},
		{name: "two hits in short session", frames: 3, hits: 2, common: true, percentage: 66.7},
		{name: "exactly fifteen percent", frames: 20, hits: 3, common: false},
		{name: "just above fifteen percent", frames: 20, hits: 4, common: true, percentage: 20.0},
		{name: "one third", frames: 9, hits: 3, common: true, percentage: 33.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, _ := NewRegistry().GetOrCreate("", "squat")

			var snapshot entity.SessionSnapshot
			var err error
			for i := 0; i < tt.frames; i++ {
				f := feedback(entity.VerdictGood)
				if i < tt.hits {
					f = feedback(entity.VerdictGood, tooDeep)
				}
				if snapshot, err = session.Update(testKeypoints(), f); err != nil {
					t.Fatalf("update: %v", err)
				}
			}

			stat, ok := snapshot.CommonIssues[tooDeep]
			if ok != tt.common {
				t.Fatalf("expected common=%v, got %v (%v)", tt.common, ok, snapshot.CommonIssues)
			}
			if !ok {
				return
			}
			if stat.Count != tt.hits || stat.Percentage != tt.percentage {
				t.Errorf("expected {%d %v}, got %+v", tt.hits, tt.percentage, stat)
			}
		})
	}
}

func TestSession_TopIssuesOrderingAndCutoff(t *testing.T) {
	session, _ := NewRegistry().GetOrCreate("rank", "squat")

	// 10 frames: e appears 6x, d 4x, c and b 3x, a 2x
	frames := [][]string{
		{"e", "d", "c", "b", "a"},
		{"e", "d", "c", "b", "a"},
		{"e", "d", "c", "b"},
		{"e", "d"},
		{"e"},
		{"e"},
		{}, {}, {}, {},
	}
	for _, issues := range frames {
		if _, err := session.Update(testKeypoints(), feedback(entity.VerdictFair, issues...)); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	expected := []entity.TopIssue{
		{Issue: "e", Count: 6, Percentage: 60.0},
		{Issue: "d", Count: 4, Percentage: 40.0},
		{Issue: "b", Count: 3, Percentage: 30.0},
	}
	if got := session.Summary().TopIssues; !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestSession_SummaryIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	session, _ := NewRegistry(WithClock(clock.Now)).GetOrCreate("idem", "squat")

	for i := 0; i < 4; i++ {
		clock.Advance(500 * time.Millisecond)
		if _, err := session.Update(testKeypoints(), feedback(entity.VerdictGood, tooDeep)); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	first := session.Summary()
	clock.Advance(time.Minute)
	second := session.Summary()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical summaries, got %+v and %+v", first, second)
	}
}

func TestSession_DurationIsRounded(t *testing.T) {
	clock := newFakeClock()
	session, _ := NewRegistry(WithClock(clock.Now)).GetOrCreate("round", "squat")

	clock.Advance(1234 * time.Millisecond)
	snapshot, err := session.Update(testKeypoints(), feedback(entity.VerdictGood))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if snapshot.Duration != 1.2 {
		t.Errorf("expected snapshot duration 1.2, got %v", snapshot.Duration)
	}

	clock.Advance(1260 * time.Millisecond)
	if got := session.End().Duration; got != 2.5 {
		t.Errorf("expected summary duration 2.5, got %v", got)
	}
}

func TestSession_EmptySummary(t *testing.T) {
	session, _ := NewRegistry().GetOrCreate("", "squat")
	summary := session.Summary()

	if summary.FormQuality != 0 || summary.TotalFrames != 0 || summary.Duration != 0 {
		t.Errorf("unexpected empty summary %+v", summary)
	}
	if summary.TopIssues == nil || len(summary.TopIssues) != 0 {
		t.Errorf("expected empty top issues, got %#v", summary.TopIssues)
	}
}

func TestSession_End(t *testing.T) {
	clock := newFakeClock()
	session, _ := NewRegistry(WithClock(clock.Now)).GetOrCreate("end", "squat")

	clock.Advance(2 * time.Second)
	if _, err := session.Update(testKeypoints(), feedback(entity.VerdictGood)); err != nil {
		t.Fatalf("update: %v", err)
	}
	clock.Advance(3 * time.Second)

	summary := session.End()
	if !summary.Completed {
		t.Error("expected completed summary")
	}
	if summary.Duration != 5 {
		t.Errorf("expected duration 5, got %v", summary.Duration)
	}
	if session.Active() {
		t.Error("expected session to be inactive")
	}

	_, err := session.Update(testKeypoints(), feedback(entity.VerdictGood))
	if !errors.Is(err, workout.ErrSessionEnded) {
		t.Errorf("expected ErrSessionEnded, got %v", err)
	}

	clock.Advance(time.Hour)
	if again := session.End(); !reflect.DeepEqual(again, summary) {
		t.Errorf("expected repeated End to return the same summary, got %+v", again)
	}
	if got := session.Summary(); !reflect.DeepEqual(got, summary) {
		t.Errorf("expected summary to stay frozen, got %+v", got)
	}
}

func TestSession_FrameCap(t *testing.T) {
	clock := newFakeClock()
	session, _ := NewRegistry(WithClock(clock.Now), WithMaxFrames(3)).GetOrCreate("cap", "squat")

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if _, err := session.Update(testKeypoints(), feedback(entity.VerdictGood, tooDeep)); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	frames := session.Frames()
	if len(frames) != 3 {
		t.Fatalf("expected 3 retained frames, got %d", len(frames))
	}
	start := newFakeClock().Now()
	if !frames[0].Timestamp.Equal(start.Add(3 * time.Second)) {
		t.Errorf("expected oldest retained frame at +3s, got %v", frames[0].Timestamp)
	}

	summary := session.Summary()
	if summary.TotalFrames != 5 {
		t.Errorf("expected total frames to keep counting, got %d", summary.TotalFrames)
	}
	if len(summary.TopIssues) != 1 || summary.TopIssues[0].Count != 5 || summary.TopIssues[0].Percentage != 100 {
		t.Errorf("unexpected top issues %v", summary.TopIssues)
	}
}

func TestSession_RecordsAreImmutable(t *testing.T) {
	session, _ := NewRegistry().GetOrCreate("immut", "squat")

	kp := testKeypoints()
	f := feedback(entity.VerdictGood, tooDeep)
	if _, err := session.Update(kp, f); err != nil {
		t.Fatalf("update: %v", err)
	}

	kp[0] = entity.Keypoint{999, 999}
	f.Issues[0] = "changed"

	frame := session.Frames()[0]
	if frame.Keypoints[0] == (entity.Keypoint{999, 999}) {
		t.Error("stored keypoints changed with caller's slice")
	}
	if frame.Analysis.Issues[0] != tooDeep {
		t.Error("stored analysis changed with caller's slice")
	}
}

func TestSession_ConcurrentUpdates(t *testing.T) {
	registry := NewRegistry()

	const workers, perWorker = 8, 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				session, _ := registry.GetOrCreate("shared", "squat")
				if _, err := session.Update(testKeypoints(), feedback(entity.VerdictGood, tooDeep)); err != nil {
					t.Errorf("update: %v", err)
					return
				}
				_ = session.Summary()
			}
		}()
	}
	wg.Wait()

	if registry.Len() != 1 {
		t.Fatalf("expected one session, got %d", registry.Len())
	}
	session, _ := registry.Get("shared")
	summary := session.Summary()
	if summary.TotalFrames != workers*perWorker {
		t.Errorf("expected %d frames, got %d", workers*perWorker, summary.TotalFrames)
	}
	if summary.TopIssues[0].Count != workers*perWorker {
		t.Errorf("expected issue count %d, got %d", workers*perWorker, summary.TopIssues[0].Count)
	}
}
