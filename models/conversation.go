package models

// Conversation ids are supplied by the client and globally unique.
// CreatedAt is a fixed-width UTC text instant so that lexicographic order
// matches chronological order.
type Conversation struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"size:200"`
	CreatedAt string `gorm:"size:40"`
}
