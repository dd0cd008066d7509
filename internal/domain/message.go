// File: internal/domain/message.go
package domain

// Message represents a single message within a chat. Messages are immutable
// once inserted; `Ts` is the logical ordering key, which is not necessarily
// the insertion order.
type Message struct {
	ID     string `json:"id" gorm:"primaryKey"`
	ChatID string `json:"chatId" gorm:"not null;index:idx_messages_chat_ts,priority:1"`
	Ts     int64  `json:"ts" gorm:"not null;index:idx_messages_chat_ts,priority:2,sort:desc"` // epoch millis
	Sender string `json:"sender" gorm:"not null"`
	Body   string `json:"body" gorm:"not null;index:idx_messages_body"`
}
