// Package billing covers maintenance charges and the receipt (slip) numbers
// issued when they are paid.
package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SlipNumber is a receipt identifier unique per (society, year).
// Counters start at 1 and are zero padded to two digits; wider values keep
// all their digits, so the 100th slip of 2025 is "2025-100".
type SlipNumber struct {
	Year    int
	Counter int64
}

// String renders the slip as "{year}-{counter:%02d}"
func (s SlipNumber) String() string {
	return fmt.Sprintf("%d-%02d", s.Year, s.Counter)
}

// IsZero reports whether no slip was issued
func (s SlipNumber) IsZero() bool {
	return s.Counter == 0
}

// ParseSlipNumber parses the rendered form back into its parts
func ParseSlipNumber(v string) (SlipNumber, error) {
	year, counter, ok := strings.Cut(v, "-")
	if !ok {
		return SlipNumber{}, fmt.Errorf("invalid slip number %q", v)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return SlipNumber{}, fmt.Errorf("invalid slip year %q: %w", v, err)
	}
	c, err := strconv.ParseInt(counter, 10, 64)
	if err != nil || c < 1 {
		return SlipNumber{}, fmt.Errorf("invalid slip counter %q", v)
	}
	return SlipNumber{Year: y, Counter: c}, nil
}

// SlipSequencer issues slip numbers. Implementations must hand out distinct,
// strictly increasing counters per (society, year) under concurrent callers,
// and return shared.ErrSequenceWriteFailed when the store round trip fails.
type SlipSequencer interface {
	Next(ctx context.Context, society string, year int) (SlipNumber, error)
}
