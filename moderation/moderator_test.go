package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"spam", "troll", "scam"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "Stop the spam please",
			expected: "Stop the **** please",
			words:    []string{"spam"},
		},
		{
			name:     "Multiple occurrences",
			input:    "spam spam spam",
			expected: "**** **** ****",
			words:    []string{"spam", "spam", "spam"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "You are a T.r.0.l.l !",
			expected: "You are a ********* !",
			words:    []string{"troll"},
		},
		{
			name:     "Uppercase and noise",
			input:    "S-C-A-M and $P@M",
			expected: "******* and ****",
			words:    []string{"scam", "spam"},
		},
		{
			name:     "Accents are kept around a match",
			input:    "Un été plein de spam",
			expected: "Un été plein de ****",
			words:    []string{"spam"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "What a troll.",
			expected: "What a *****.",
			words:    []string{"troll"},
		},
		{
			name:     "Nothing to censor",
			input:    "Привет, сервер!",
			expected: "Привет, сервер!",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given pure noise entries in the dictionary
	dictionary := []string{"...", ",,,", "", "spam"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	content, words := mod.Censor("No spam here")
	req.Equal("No **** here", content)
	req.Equal([]string{"spam"}, words)

	// Then noise is never censored
	content, words = mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)
}
