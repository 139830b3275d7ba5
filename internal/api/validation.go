package api

import (
	"errors"
	"regexp"
	"strings"
)

const (
	minReplyLength = 10
	maxReplyLength = 5000
)

// dangerousPatterns blocks markup that could be rendered by a mail
// client or the dashboard.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<script[^>]*>`),
	regexp.MustCompile(`javascript:`),
	regexp.MustCompile(`onload=`),
	regexp.MustCompile(`onerror=`),
	regexp.MustCompile(`<iframe[^>]*>`),
	regexp.MustCompile(`<object[^>]*>`),
	regexp.MustCompile(`<embed[^>]*>`),
}

// validateDraftReply enforces the operator input rules for reply text.
func validateDraftReply(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return errors.New("draft reply cannot be empty")
	}
	if len(trimmed) < minReplyLength {
		return errors.New("draft reply must be at least 10 characters")
	}
	if len(trimmed) > maxReplyLength {
		return errors.New("draft reply must be at most 5000 characters")
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(lower) {
			return errors.New("draft reply contains potentially malicious content")
		}
	}
	return nil
}
