package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/vidtube/internal/apperr"
)

// field is a named input value for required().
type field struct {
	name  string
	value string
}

// required rejects blank values, listing every missing field at once.
func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("all fields are required", missing...)
	}
	return nil
}

// Column widths of the VARCHAR fields users can set.
const (
	maxUsernameLen = 64
	maxTextLen     = 255
)

// atMost rejects values longer than limit characters.
func atMost(limit int, fields ...field) error {
	var long []string
	for _, f := range fields {
		if utf8.RuneCountInString(strings.TrimSpace(f.value)) > limit {
			long = append(long, fmt.Sprintf("%s must be at most %d characters", f.name, limit))
		}
	}
	if len(long) > 0 {
		return apperr.Validation("input too long", long...)
	}
	return nil
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageParams clamps paging input to sane values.
func pageParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
