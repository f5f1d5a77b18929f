package store

import (
	"fmt"
	"math"
	"time"
)

// invertedTimestamp returns a string that sorts in descending order.
// Uses MaxInt64 - UnixNano so newest timestamps come first during forward
// iteration, avoiding reverse iterators.
func invertedTimestamp(t time.Time) string {
	return fmt.Sprintf("%019d", math.MaxInt64-t.UnixNano())
}
