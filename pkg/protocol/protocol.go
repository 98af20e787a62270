// Package protocol defines the line-oriented echo wire format.
//
// Requests are newline-terminated text lines. Responses are the original
// line prefixed with ResponsePrefix, newline-terminated.
package protocol

import "strings"

// ResponsePrefix precedes every echoed line on the wire.
const ResponsePrefix = "Echoing: "

// FormatResponse builds the response payload for a received line.
// The line must not contain its terminator; the caller appends it on write.
func FormatResponse(line string) string {
	return ResponsePrefix + line
}

// ParseResponse extracts the original line from a response payload.
// It reports false if the payload does not carry the response prefix.
func ParseResponse(payload string) (string, bool) {
	if !strings.HasPrefix(payload, ResponsePrefix) {
		return "", false
	}
	return payload[len(ResponsePrefix):], true
}
