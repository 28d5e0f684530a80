package scheduling

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// smoothingOffset computes the deterministic [-2, +2] day offset the
// load balancer applies to an over-dense effective-date row, derived
// from a content hash of the ASCII concatenation of its identifying
// fields. xxhash is a pure function over bytes, so two runs over the
// same input always agree.
func smoothingOffset(contactID int64, emailType string, eventYear, windowDays int) int {
	key := fmt.Sprintf("%d_%s_%d", contactID, emailType, eventYear)
	h := xxhash.Sum64String(key)
	return int(h%uint64(windowDays)) - 2
}
