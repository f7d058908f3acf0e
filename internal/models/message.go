package models

import "time"

// Direction tells which side of the conversation a bubble belongs to
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// Message represents a chat bubble. It only lives in a widget's transcript.
type Message struct {
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}

// IsOutgoing reports whether the message was sent by the user
func (m Message) IsOutgoing() bool {
	return m.Direction == Outgoing
}

// Time returns the display timestamp of the message
func (m Message) Time() string {
	if m.Timestamp.IsZero() {
		return ""
	}
	return m.Timestamp.Format(TimestampLayout)
}

// ChatRequest is the JSON body posted to the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the decoded body of a successful chat response.
// Reply is empty when the backend omitted the field.
type ChatReply struct {
	Reply     string
	RequestID string
}

// Text returns the reply, or the placeholder when there is none
func (r ChatReply) Text() string {
	if r.Reply == "" {
		return NoReplyPlaceholder
	}
	return r.Reply
}
