// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"cool-chat/errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
type Message struct {
	ID        uuid.UUID // unique identifier
	Room      RoomID
	SenderID  string
	Content   string
	Lang      string
	CreatedAt time.Time
}

// NormalizeContent trims the content and enforces the maximum length in runes.
// A maxLength <= 0 disables the length check.
func NormalizeContent(content string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", errors.ErrEmptyContent
	}
	if n := utf8.RuneCountInString(trimmed); maxLength > 0 && n > maxLength {
		return "", fmt.Errorf("%w: %d > %d", errors.ErrContentTooLong, n, maxLength)
	}
	return trimmed, nil
}
