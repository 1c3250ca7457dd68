package notification

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

func TestLogNotifier_UsesSeverityAsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	notifier := NewLogNotifier(logging.NewJSONTo(&buf, logging.LevelDebug))

	item := sampleNotification()
	item.Severity = cup.SeverityError
	item.Message = "conflict requires manual review"
	item.Conflict = &cup.ConflictRecord{ConflictType: cup.ConflictConcurrentUpdate, Resolution: cup.ResolutionManualReviewRequired}

	if err := notifier.NotifyPointChange(context.Background(), item); err != nil {
		t.Fatalf("notify: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"level":"ERROR"`, `"resolution":"manual_review_required"`, `"user_id":"u1"`, "conflict requires manual review"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output: %s", want, out)
		}
	}
}
