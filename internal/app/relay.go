package app

import (
	"fmt"
	"iter"
	"strings"
)

// Display receives each fragment as it arrives together with all the text
// accumulated so far.
type Display func(fragment, accumulated string) error

// Relay consumes fragments in arrival order, calling display after every
// non-empty one. It returns the accumulated text; on error the text is
// whatever arrived before the failure.
func Relay(fragments iter.Seq2[string, error], display Display) (string, error) {
	var acc strings.Builder
	for frag, err := range fragments {
		if err != nil {
			return acc.String(), err
		}
		if frag == "" {
			continue
		}
		acc.WriteString(frag)
		if display == nil {
			continue
		}
		if err := display(frag, acc.String()); err != nil {
			return acc.String(), fmt.Errorf("display fragment: %w", err)
		}
	}
	return acc.String(), nil
}
