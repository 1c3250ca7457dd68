package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
)

func TestMarkStorageError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		critical bool
	}{
		{"foreign key violation", &pq.Error{Code: "23503", Message: "insert violates fk"}, true},
		{"unique violation", &pq.Error{Code: "23505", Message: "duplicate key"}, true},
		{"connection failure", &pq.Error{Code: "08006", Message: "terminated"}, true},
		{"permission denied", &pq.Error{Code: "42501", Message: "denied"}, true},
		{"statement timeout", &pq.Error{Code: "57014", Message: "canceling statement"}, true},
		{"serialization failure", &pq.Error{Code: "40001", Message: "could not serialize"}, false},
		{"deadlock", fmt.Errorf("upsert batch: %w", &pq.Error{Code: "40P01", Message: "deadlock detected"}), false},
		{"plain connection text", fmt.Errorf("dial tcp: connection refused"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marked := markStorageError(tc.err)
			if got := crerr.Is(marked, cup.ErrCriticalStorage); got != tc.critical {
				t.Fatalf("critical=%t want=%t (err=%v)", got, tc.critical, marked)
			}
			if !tc.critical && !crerr.Is(marked, cup.ErrNonCriticalStorage) {
				t.Fatalf("expected non-critical marker, got %v", marked)
			}
		})
	}

	if markStorageError(nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestNullConversions(t *testing.T) {
	if nullTimeToPtr(sql.NullTime{}) != nil {
		t.Fatalf("expected nil for null time")
	}
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := nullTimeToPtr(sql.NullTime{Time: at, Valid: true})
	if got == nil || !got.Equal(at) || got.Location() != time.UTC {
		t.Fatalf("unexpected converted time: %v", got)
	}

	if nullIntToPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for null int")
	}
	if v := nullIntToPtr(sql.NullInt64{Int64: 3, Valid: true}); v == nil || *v != 3 {
		t.Fatalf("unexpected converted int: %v", v)
	}
}
