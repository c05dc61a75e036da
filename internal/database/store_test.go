package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedMessage(t *testing.T, store Store, chatID, userID int64, content string, ts time.Time) *Message {
	t.Helper()

	msg := &Message{
		ChatID:    chatID,
		UserID:    userID,
		UserName:  "tester",
		Content:   content,
		Timestamp: ts,
	}
	if err := store.SaveMessage(context.Background(), msg); err != nil {
		t.Fatalf("SaveMessage(%q): %v", content, err)
	}
	return msg
}

func TestSaveMessage(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	msg := seedMessage(t, store, 1, 7, "hello", time.Now().UTC())
	if msg.ID == 0 {
		t.Error("expected SaveMessage to set the message ID")
	}

	t.Run("rejects invalid messages", func(t *testing.T) {
		tests := []struct {
			name string
			msg  *Message
		}{
			{name: "nil message", msg: nil},
			{name: "zero chat id", msg: &Message{UserID: 7, Content: "x"}},
			{name: "zero user id", msg: &Message{ChatID: 1, Content: "x"}},
			{name: "empty content", msg: &Message{ChatID: 1, UserID: 7}},
		}
		for _, tc := range tests {
			if err := store.SaveMessage(context.Background(), tc.msg); err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
		}
	})
}

func TestGetRecentMessages(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		seedMessage(t, store, 1, 7, "msg", base.Add(time.Duration(i)*time.Minute))
	}
	seedMessage(t, store, 2, 7, "other chat", base)

	t.Run("returns chronological order", func(t *testing.T) {
		msgs, err := store.GetRecentMessages(context.Background(), 1, 10)
		if err != nil {
			t.Fatalf("GetRecentMessages: %v", err)
		}
		if len(msgs) != 5 {
			t.Fatalf("got %d messages, want 5", len(msgs))
		}
		for i := 1; i < len(msgs); i++ {
			if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
				t.Errorf("messages out of order at index %d", i)
			}
		}
	})

	t.Run("limits to newest messages", func(t *testing.T) {
		msgs, err := store.GetRecentMessages(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("GetRecentMessages: %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("got %d messages, want 2", len(msgs))
		}
		if !msgs[1].Timestamp.Equal(base.Add(4 * time.Minute)) {
			t.Errorf("last message timestamp = %v, want newest", msgs[1].Timestamp)
		}
	})

	t.Run("ignores other chats", func(t *testing.T) {
		msgs, err := store.GetRecentMessages(context.Background(), 2, 10)
		if err != nil {
			t.Fatalf("GetRecentMessages: %v", err)
		}
		if len(msgs) != 1 {
			t.Errorf("got %d messages for chat 2, want 1", len(msgs))
		}
	})

	t.Run("zero limit returns empty", func(t *testing.T) {
		msgs, err := store.GetRecentMessages(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("GetRecentMessages: %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("got %d messages, want 0", len(msgs))
		}
	})
}

func TestDeleteMessages(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	now := time.Now().UTC()
	seedMessage(t, store, 1, 7, "keep none", now)
	seedMessage(t, store, 1, 7, "keep none either", now)
	seedMessage(t, store, 2, 7, "survives", now)

	if err := store.DeleteMessages(context.Background(), 1); err != nil {
		t.Fatalf("DeleteMessages: %v", err)
	}

	msgs, err := store.GetRecentMessages(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("chat 1 still has %d messages", len(msgs))
	}

	msgs, err = store.GetRecentMessages(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("chat 2 has %d messages, want 1", len(msgs))
	}
}

func TestDeleteMessagesBefore(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	now := time.Now().UTC()
	seedMessage(t, store, 1, 7, "old", now.Add(-48*time.Hour))
	seedMessage(t, store, 2, 7, "old too", now.Add(-30*time.Hour))
	seedMessage(t, store, 1, 7, "recent", now)

	deleted, err := store.DeleteMessagesBefore(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteMessagesBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	msgs, err := store.GetRecentMessages(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "recent" {
		t.Errorf("unexpected surviving messages: %+v", msgs)
	}
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	seedMessage(t, store, 1, 7, "hello", time.Now().UTC())
	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping after maintenance: %v", err)
	}
}
