package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a prefixed identifier, e.g. "job-1b9d6bcd-...".
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// GenerateItemID returns a short 16-character hex identifier used for item
// listings, matching the id length the rest of the platform expects.
func GenerateItemID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
