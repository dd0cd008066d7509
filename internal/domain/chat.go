// File: internal/domain/chat.go
package domain

// Chat represents a single conversation thread.
type Chat struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Title         string `json:"title" gorm:"not null"`
	LastMessageAt int64  `json:"lastMessageAt" gorm:"not null;index:idx_chats_last_message_at,sort:desc"` // epoch millis of the most recently inserted message
	UnreadCount   int    `json:"unreadCount" gorm:"not null;default:0"`
}
