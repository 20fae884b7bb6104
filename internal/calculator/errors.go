package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidWindow is returned when a moving-average window is not positive.
var ErrInvalidWindow = errors.New("window must be positive")

// ColumnResolutionError reports that no usable price field exists.
type ColumnResolutionError struct {
	Wanted    []string
	Available []string
}

func (e *ColumnResolutionError) Error() string {
	return fmt.Sprintf("no suitable price column found (%s); available columns: [%s]",
		quoteAll(e.Wanted), strings.Join(e.Available, ", "))
}

// InsufficientHistoryError reports that no date has every required series defined.
type InsufficientHistoryError struct {
	Series []string
	Rows   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("not enough data to compute %s over %d rows; try a longer lookback period",
		strings.Join(e.Series, ", "), e.Rows)
}

// DivisionUndefinedError reports a percent distance against a zero or undefined reference.
type DivisionUndefinedError struct {
	Reference float64
}

func (e *DivisionUndefinedError) Error() string {
	return fmt.Sprintf("percent distance undefined for reference %v", e.Reference)
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, " or ")
}
