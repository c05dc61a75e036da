package ai

import (
	"context"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/dsemenov/yagptbot/internal/config"
	"github.com/dsemenov/yagptbot/internal/database"
)

func TestNewGeminiClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := newGeminiClient(context.Background(), config.AIConfig{}, discardLogger()); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestGeminiContents(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	history := []*database.Message{
		msgAt(7, "Alice", "first", ts),
		msgAt(testBotID, "Bot", "reply one", ts.Add(time.Minute)),
		msgAt(7, "Alice", "second", ts.Add(2*time.Minute)),
	}

	t.Run("assigns roles by authorship", func(t *testing.T) {
		t.Parallel()

		contents := geminiContents(history, testBotID, 10)
		if len(contents) != 3 {
			t.Fatalf("got %d contents, want 3", len(contents))
		}
		wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
		for i, want := range wantRoles {
			if contents[i].Role != string(want) {
				t.Errorf("content %d: role = %q, want %q", i, contents[i].Role, want)
			}
		}
	})

	t.Run("windows to last window+1 messages", func(t *testing.T) {
		t.Parallel()

		contents := geminiContents(history, testBotID, 1)
		if len(contents) != 2 {
			t.Fatalf("got %d contents, want 2", len(contents))
		}
		if contents[0].Role != string(genai.RoleModel) {
			t.Errorf("first windowed role = %q, want %q", contents[0].Role, genai.RoleModel)
		}
	})

	t.Run("skips nil messages", func(t *testing.T) {
		t.Parallel()

		contents := geminiContents([]*database.Message{history[0], nil}, testBotID, 10)
		if len(contents) != 1 {
			t.Errorf("got %d contents, want 1", len(contents))
		}
	})
}

func TestGeminiExtractText(t *testing.T) {
	t.Parallel()

	client := &geminiClient{log: discardLogger()}

	candidateWith := func(text string) []*genai.Candidate {
		return []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		}
	}

	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		expected string
		wantErr  bool
	}{
		{
			name:     "returns trimmed completion",
			resp:     &genai.GenerateContentResponse{Candidates: candidateWith("  the answer \n")},
			expected: "the answer",
		},
		{
			name: "blocked prompt is an error",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			wantErr: true,
		},
		{
			name:    "no candidates is an error",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name: "candidate without content is an error",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
			},
			wantErr: true,
		},
		{
			name:    "blank completion is an error",
			resp:    &genai.GenerateContentResponse{Candidates: candidateWith("   ")},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := client.extractText(context.Background(), tc.resp)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractText: %v", err)
			}
			if got != tc.expected {
				t.Errorf("extractText = %q, want %q", got, tc.expected)
			}
		})
	}
}
