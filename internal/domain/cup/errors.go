package cup

import (
	"fmt"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrValidation         = crerr.New("cup records failed validation")
	ErrNotFound           = crerr.New("cup resource not found")
	ErrNotAccessible      = crerr.New("cup data is not accessible")
	ErrCriticalStorage    = crerr.New("critical storage error")
	ErrNonCriticalStorage = crerr.New("storage error")
	ErrConflict           = crerr.New("concurrent modification detected")
	ErrIntegrity          = crerr.New("stored points do not match intended points")
)

type ValidationIssue struct {
	Index   int
	Field   string
	Message string
}

// ValidationError lists every offending input index. It matches ErrValidation.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("index %d: %s %s", issue.Index, issue.Field, issue.Message))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Indexes returns the distinct offending indexes in ascending order.
func (e *ValidationError) Indexes() []int {
	if e == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(e.Issues))
	out := make([]int, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if _, ok := seen[issue.Index]; ok {
			continue
		}
		seen[issue.Index] = struct{}{}
		out = append(out, issue.Index)
	}
	sort.Ints(out)
	return out
}
