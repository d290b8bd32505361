package videoid

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "literal ID passes through",
			input:    "dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "literal ID with underscore and dash",
			input:    "a_b-c_d-e1Z",
			expected: "a_b-c_d-e1Z",
		},
		{
			name:     "watch URL with extra params",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "watch URL with v later in query",
			input:    "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short URL with query",
			input:    "https://youtu.be/dQw4w9WgXcQ?si=abc",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "embed URL",
			input:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "v path URL",
			input:    "https://www.youtube.com/v/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "shorts URL",
			input:    "https://www.youtube.com/shorts/dQw4w9WgXcQ?feature=share",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "unresolvable input returned trimmed",
			input:    "  not a video  ",
			expected: "not a video",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "wrong-length path segment returned as-is",
			input:    "https://youtu.be/short",
			expected: "https://youtu.be/short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.input); got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"valid ID", "dQw4w9WgXcQ", true},
		{"valid with dash and underscore", "_-_-_-_-_-_", true},
		{"too short", "dQw4w9WgXc", false},
		{"too long", "dQw4w9WgXcQQ", false},
		{"contains space", "dQw4w9 gXcQ", false},
		{"contains invalid char", "dQw4w9WgXc!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.id); got != tt.expected {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.expected)
			}
		})
	}
}
