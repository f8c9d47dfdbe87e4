package pkg

import "time"

// Conversation Core Types shared by the pipeline, storage and transports

// ConversationContext is the short-term memory of one chat session.
// It only ever holds the most recent catalog hit; each hit overwrites it.
type ConversationContext struct {
	LastItem     string `json:"last_item,omitempty"`
	LastCategory string `json:"last_category,omitempty"`
}

// IsEmpty reports whether nothing has been discussed yet
func (c ConversationContext) IsEmpty() bool {
	return c.LastItem == "" && c.LastCategory == ""
}

// UnansweredRecord is one entry of the unanswered log
type UnansweredRecord struct {
	Question  string    `json:"question"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptEntry is emitted once per turn for analytics
type TranscriptEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"user_id"`
	UserMessage string    `json:"user_message"`
	BotMessage  string    `json:"bot_message"`
	ResolvedBy  string    `json:"resolved_by,omitempty"`
}

