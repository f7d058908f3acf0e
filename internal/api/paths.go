// Package api provides the HTTP client for the phonechat backend.
package api

// GJSON paths for extracting values from chat endpoint responses.
const (
	// PathReply is the reply text of a successful response
	PathReply = "reply"
)

// maxBodySize limits how much of a response body is read
const maxBodySize = 1 << 20
