package cup

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var criticalStorageKeywords = []string{
	"foreign key",
	"foreign_key",
	"constraint",
	"connection",
	"timeout",
	"timed out",
	"deadline exceeded",
	"permission",
}

// IsCriticalStorageError reports whether a batch failure should abort the remaining batches.
func IsCriticalStorageError(err error) bool {
	if err == nil {
		return false
	}
	if crerr.Is(err, ErrCriticalStorage) || crerr.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, keyword := range criticalStorageKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// ClassifyStorageError marks err as ErrCriticalStorage or ErrNonCriticalStorage.
func ClassifyStorageError(err error) error {
	if err == nil {
		return nil
	}
	if IsCriticalStorageError(err) {
		return crerr.Mark(err, ErrCriticalStorage)
	}
	return crerr.Mark(err, ErrNonCriticalStorage)
}
