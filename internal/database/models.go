package database

import "time"

// Message is one line of conversation history, either a user message or a
// bot reply (identified by UserID matching the bot's own ID). It is stored
// so replies can carry a bounded context window and so the reset command
// and the cleanup task have something to delete.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	UserName  string    `db:"user_name"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}
