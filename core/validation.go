package core

import (
	"fmt"
	"time"
)

// Validate checks that every component of the key is present and the date
// parses as an ISO calendar date.
func (k MenuKey) Validate() error {
	if k.Hall == "" || k.Meal == "" || k.Section == "" {
		return fmt.Errorf("%w: hall, meal and section are required", ErrInvalidKey)
	}
	if _, err := time.Parse(DateFormat, k.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, k.Date)
	}
	return nil
}
