package ai

import (
	"testing"
	"time"

	"github.com/dsemenov/yagptbot/internal/database"
)

const testBotID = int64(1000)

func msgAt(userID int64, name, content string, ts time.Time) *database.Message {
	return &database.Message{
		ChatID:    42,
		UserID:    userID,
		UserName:  name,
		Content:   content,
		Timestamp: ts,
	}
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		message  *database.Message
		expected string
	}{
		{
			name:     "user message carries timestamp and name",
			message:  msgAt(7, "Alice", "hello", ts),
			expected: "[2024-05-01 12:30:00] Alice: hello",
		},
		{
			name:     "user without name falls back to UID",
			message:  msgAt(7, "", "hello", ts),
			expected: "[2024-05-01 12:30:00] UID 7: hello",
		},
		{
			name:     "bot reply passes through verbatim",
			message:  msgAt(testBotID, "Bot", "hi there", ts),
			expected: "hi there",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := formatLine(tc.message, testBotID)
			if got != tc.expected {
				t.Errorf("formatLine() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	history := []*database.Message{
		msgAt(7, "Alice", "first", ts),
		msgAt(testBotID, "Bot", "reply one", ts.Add(time.Minute)),
		msgAt(7, "Alice", "second", ts.Add(2*time.Minute)),
		msgAt(testBotID, "Bot", "reply two", ts.Add(3*time.Minute)),
		msgAt(7, "Alice", "third", ts.Add(4*time.Minute)),
	}

	t.Run("assigns roles by authorship", func(t *testing.T) {
		t.Parallel()

		out := buildMessages("be helpful", history, testBotID, 10)
		if len(out) != 6 {
			t.Fatalf("expected 6 messages, got %d", len(out))
		}
		if out[0].Role != roleSystem || out[0].Content != "be helpful" {
			t.Errorf("expected system instruction first, got %+v", out[0])
		}
		wantRoles := []string{roleUser, roleAssistant, roleUser, roleAssistant, roleUser}
		for i, want := range wantRoles {
			if out[i+1].Role != want {
				t.Errorf("message %d: role = %q, want %q", i, out[i+1].Role, want)
			}
		}
	})

	t.Run("windows to last window+1 messages", func(t *testing.T) {
		t.Parallel()

		out := buildMessages("", history, testBotID, 2)
		if len(out) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(out))
		}
		if out[0].Role != roleUser || out[0].Content == "" {
			t.Errorf("unexpected first windowed message: %+v", out[0])
		}
		last := out[len(out)-1]
		if last.Role != roleUser {
			t.Errorf("last message role = %q, want %q", last.Role, roleUser)
		}
	})

	t.Run("omits empty instruction", func(t *testing.T) {
		t.Parallel()

		out := buildMessages("", history, testBotID, 10)
		if len(out) != 5 {
			t.Fatalf("expected 5 messages, got %d", len(out))
		}
		if out[0].Role == roleSystem {
			t.Error("expected no system message for empty instruction")
		}
	})

	t.Run("skips nil messages", func(t *testing.T) {
		t.Parallel()

		withNil := []*database.Message{history[0], nil, history[2]}
		out := buildMessages("", withNil, testBotID, 10)
		if len(out) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(out))
		}
	})
}

func TestCleanReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims surrounding whitespace", input: "  hello \n", expected: "hello"},
		{name: "whitespace only becomes empty", input: " \t\n ", expected: ""},
		{name: "plain text unchanged", input: "hello", expected: "hello"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := cleanReply(tc.input); got != tc.expected {
				t.Errorf("cleanReply(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
