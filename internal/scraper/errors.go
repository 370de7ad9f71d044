package scraper

import (
	"fmt"
	"sort"
	"strings"
)

// StructureValidationError reports court numbers observed on the site
// that are absent from the configured court map. It is the one error the
// availability call propagates distinctly: a partially-trusted result is
// worse than none, since an unknown court may be a renamed court that
// must not be silently ignored or auto-booked.
type StructureValidationError struct {
	UnknownCourts []string
	CourtMap      CourtMap
}

func (e *StructureValidationError) Error() string {
	unknown := append([]string(nil), e.UnknownCourts...)
	sort.Strings(unknown)
	return fmt.Sprintf(
		"unknown court IDs detected: %s (current court map: %v); update the court map configuration",
		strings.Join(unknown, ", "), e.CourtMap,
	)
}
