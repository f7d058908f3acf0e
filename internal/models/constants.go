// Package models contains data types and constants for the phonechat widget.
package models

import "time"

// Endpoint paths relative to the configured base URL
const (
	EndpointChat = "/api/chat"
)

// DefaultBaseURL is the local-serving backend address.
const DefaultBaseURL = "http://127.0.0.1:8501"

// DefaultTimeout bounds a single send in hardened mode.
const DefaultTimeout = 20 * time.Second

// Literal texts rendered by the widget
const (
	NoReplyPlaceholder = "(no reply)"
	ErrorPrefix        = "Error: "
)

// TimestampLayout is the hour:minute layout shown under each bubble.
const TimestampLayout = "15:04"

// DefaultHeaders returns the headers sent with every chat request
func DefaultHeaders(userAgent string) map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   userAgent,
	}
}
