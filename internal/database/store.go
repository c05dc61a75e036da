package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access operations used by the bot. All methods
// accept a context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new message record and sets its ID.
	SaveMessage(ctx context.Context, message *Message) error

	// GetRecentMessages returns the most recent 'limit' messages for a
	// chat in chronological order.
	GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]*Message, error)

	// DeleteMessages removes all stored messages for a chat.
	DeleteMessages(ctx context.Context, chatID int64) error

	// DeleteMessagesBefore removes messages older than cutoff across all
	// chats and reports how many rows were deleted.
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance performs periodic database maintenance (VACUUM,
	// ANALYZE).
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.UserID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	message.CreatedAt = time.Now().UTC()

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO messages (created_at, chat_id, user_id, user_name, content, timestamp)
		VALUES (:created_at, :chat_id, :user_id, :user_name, :content, :timestamp)`,
		message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted message id: %w", err)
	}
	message.ID = uint(id)

	s.logger.DebugContext(ctx, "Saved message", "id", message.ID, "chat_id", message.ChatID)
	return nil
}

func (s *sqlxStore) GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]*Message, error) {
	if limit <= 0 {
		return []*Message{}, nil
	}

	var rows []*Message
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, created_at, chat_id, user_id, user_name, content, timestamp
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		chatID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query recent messages", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}

	// Query returns newest first; callers expect chronological order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (s *sqlxStore) DeleteMessages(ctx context.Context, chatID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete chat messages", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}

	deleted, _ := res.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted chat history", "chat_id", chatID, "rows", deleted)
	return nil
}

func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete old messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete old messages: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return deleted, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
