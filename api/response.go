package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the normalized result of one logical call. Exactly one of
// Data (when Success) or Error (when not) is meaningfully populated.
//
// The Kind and Status fields are pipeline annotations, not part of the wire
// shape: servers that already speak the envelope convention control Success,
// Data, and Error, while the pipeline fills in the classification.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// Kind classifies the failure. KindNone on success.
	Kind Kind `json:"-"`

	// Status is the final HTTP status code, 0 if no response was received.
	Status int `json:"-"`
}

// Err converts a failed envelope into an *APIError. A successful envelope
// yields nil.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	kind := e.Kind
	if kind == KindNone {
		// A passed-through server envelope carries no pipeline kind; the
		// server responded and declared the request failed.
		kind = KindClient
	}
	msg := e.Error
	if msg == "" {
		msg = "request failed"
	}
	return &APIError{Kind: kind, Status: e.Status, Message: msg}
}

// failure builds a terminal failure envelope.
func failure(kind Kind, status int, msg string) Envelope[json.RawMessage] {
	return Envelope[json.RawMessage]{
		Success: false,
		Error:   msg,
		Kind:    kind,
		Status:  status,
	}
}

// isJSONContent reports whether the Content-Type header indicates a JSON
// body.
func isJSONContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

// hasEnvelopeShape reports whether a JSON body already conforms to the
// envelope convention, i.e. carries a boolean success field.
func hasEnvelopeShape(raw []byte) bool {
	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Success != nil
}

// extractMessage pulls a human-readable message out of a failure body.
// JSON bodies are searched in priority order: error, message, detail.
// Non-JSON bodies are used verbatim when short enough to be a message.
func extractMessage(raw []byte, isJSON bool, fallback string) string {
	if isJSON {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			switch {
			case body.Error != "":
				return body.Error
			case body.Message != "":
				return body.Message
			case body.Detail != "":
				return body.Detail
			}
		}
		return fallback
	}

	text := string(bytes.TrimSpace(raw))
	if text != "" && len(text) <= 256 {
		return text
	}
	return fallback
}

// statusMessage is the generic fallback for a failure status.
func statusMessage(status int) string {
	if status >= 500 {
		return fmt.Sprintf("Server error: %d", status)
	}
	return fmt.Sprintf("Request failed with status %d", status)
}
