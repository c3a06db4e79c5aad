package common

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail lowercases and trims an email address so that the
// (tenant_id, email) uniqueness key is insensitive to client formatting.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) *ValidationError {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "email is required")
	}
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return NewValidationError("email", "invalid email format")
	}
	return nil
}

func ValidateRequiredString(value, field string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, field+" is required")
	}
	return nil
}

// ParseDate parses a required YYYY-MM-DD value.
func ParseDate(value, field string) (time.Time, *ValidationError) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, NewValidationError(field, field+" is required")
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, NewValidationError(field, field+" must be in YYYY-MM-DD format")
	}
	return t, nil
}

// ParseOptionalDate parses an optional YYYY-MM-DD value, returning nil when
// the field is empty.
func ParseOptionalDate(value, field string) (*time.Time, *ValidationError) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, NewValidationError(field, field+" must be in YYYY-MM-DD format")
	}
	return &t, nil
}

// ValidatePaginationParams clamps limit and offset to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
