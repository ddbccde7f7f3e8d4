package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateUUID generates a UUID v4 without external dependencies.
// Used as the primary key for persisted catalog rows.
func GenerateUUID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate UUID: %v", err))
	}

	// Version and variant bits per RFC 4122.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
