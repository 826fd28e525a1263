package core

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID with the specified prefix.
// The resulting ID follows the format: prefix_ULID
// Example: NewID("req") returns "req_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		panic("Prefix cannot be empty")
	}

	cleanPrefix := strings.TrimSpace(strings.ToLower(prefix))
	id := ulid.Make()

	return fmt.Sprintf("%s_%s", cleanPrefix, id.String())
}

// NewRequestID returns the id attached to every inbound HTTP request.
func NewRequestID() string {
	return NewID("req")
}
