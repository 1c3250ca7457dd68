package postgres

import (
	"database/sql"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// markStorageError tags driver errors with the cup storage markers.
// Integrity, connection, permission and cancellation classes are critical.
func markStorageError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return cup.ClassifyStorageError(err)
	}

	switch {
	case pqErr.Code.Class() == "23", pqErr.Code.Class() == "08":
		return crerr.Mark(err, cup.ErrCriticalStorage)
	case pqErr.Code == "42501", pqErr.Code == "57014", pqErr.Code == "53300":
		return crerr.Mark(err, cup.ErrCriticalStorage)
	default:
		return crerr.Mark(err, cup.ErrNonCriticalStorage)
	}
}

func nullTimeToPtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func nullIntToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
