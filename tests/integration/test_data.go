package integration

import (
	"fmt"
	"time"
)

// UniqueEmail generates a unique test email using a timestamp
func UniqueEmail(suffix string) string {
	return fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix)
}

// DefaultTestPassword satisfies the complexity policy
const DefaultTestPassword = "TestPassword123$Longer"
