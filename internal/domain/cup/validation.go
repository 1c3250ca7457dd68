package cup

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateRecords checks every record before any write. It returns a *ValidationError
// covering all offending indexes, or nil.
func ValidateRecords(records []PointsRecord) error {
	issues := make([]ValidationIssue, 0)
	firstIndexByKey := make(map[RecordKey]int, len(records))

	for i, record := range records {
		issues = append(issues, validateRecord(i, record)...)

		key := record.Key()
		if first, exists := firstIndexByKey[key]; exists {
			issues = append(issues, ValidationIssue{
				Index:   i,
				Field:   "key",
				Message: "duplicates composite key of index " + strconv.Itoa(first),
			})
			continue
		}
		firstIndexByKey[key] = i
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func validateRecord(index int, record PointsRecord) []ValidationIssue {
	var out []ValidationIssue
	if record.UserID != "" && strings.TrimSpace(record.UserID) == "" {
		out = append(out, ValidationIssue{Index: index, Field: "userId", Message: "must not be blank"})
	}

	err := recordValidator.Struct(record)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return append(out, ValidationIssue{Index: index, Field: "record", Message: err.Error()})
	}
	for _, fe := range fieldErrs {
		out = append(out, ValidationIssue{
			Index:   index,
			Field:   jsonFieldName(fe.Field()),
			Message: describeRule(fe.Tag()),
		})
	}
	return out
}

// ValidateCorrection checks a single correction request.
func ValidateCorrection(req CorrectionRequest) error {
	err := recordValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Issues: []ValidationIssue{{Field: "correction", Message: err.Error()}}}
	}
	issues := make([]ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, ValidationIssue{Field: jsonFieldName(fe.Field()), Message: describeRule(fe.Tag())})
	}
	return &ValidationError{Issues: issues}
}

func describeRule(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "gt":
		return "must be a positive integer"
	case "gte":
		return "must be a non-negative integer"
	case "oneof":
		return "has an unsupported value"
	default:
		return "failed " + tag + " rule"
	}
}

func jsonFieldName(field string) string {
	switch field {
	case "UserID":
		return "userId"
	case "BettingRoundID":
		return "bettingRoundId"
	case "SeasonID":
		return "seasonId"
	case "Points":
		return "points"
	case "OldPoints":
		return "oldPoints"
	case "NewPoints":
		return "newPoints"
	case "Reason":
		return "reason"
	case "Type":
		return "correctionType"
	default:
		return field
	}
}
