package badger

import "fmt"

// Key prefixes for different data types
const (
	loadStatePrefix = "loadst"
)

// makeStateKey generates a key for a day's load state. ISO dates sort
// lexicographically, so iteration over the prefix yields dates in order.
func makeStateKey(date string) []byte {
	return []byte(fmt.Sprintf("%s:%s", loadStatePrefix, date))
}
