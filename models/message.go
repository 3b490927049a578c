package models

const (
	SenderUser      = "user"
	SenderAssistant = "gemini"
)

// Message rows are never updated; readers rely on the auto-increment id for
// insertion order. Timestamp is the client-supplied string, stored verbatim.
type Message struct {
	ID             uint   `gorm:"primaryKey"`
	ConversationID string `gorm:"index;size:64;not null"`
	Sender         string `gorm:"size:20;not null"`
	Text           string `gorm:"type:text;not null"`
	Timestamp      string `gorm:"size:64"`
}
