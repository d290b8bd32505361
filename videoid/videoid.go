package videoid

import (
	"regexp"
	"strings"
)

// IDLength is the fixed length of a YouTube video identifier.
const IDLength = 11

// patterns cover the URL shapes YouTube uses to address a video. Ordered:
// the first pattern producing a valid 11-character ID wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtube\.com/watch\?[^#\n]*v=([^&\n?#]+)`),
	regexp.MustCompile(`(?i)youtu\.be/([^&\n?#/]+)`),
	regexp.MustCompile(`(?i)youtube\.com/embed/([^&\n?#/]+)`),
	regexp.MustCompile(`(?i)youtube\.com/v/([^&\n?#/]+)`),
	regexp.MustCompile(`(?i)youtube\.com/shorts/([^&\n?#/]+)`),
}

var invalidChars = regexp.MustCompile(`[^0-9A-Za-z_-]`)

// Valid reports whether id is exactly 11 characters from the video ID alphabet.
func Valid(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// Extract resolves a YouTube URL or bare ID into the 11-character video
// identifier. Literal IDs pass through unchanged. If no pattern yields a
// valid ID the trimmed input is returned as-is; callers must still validate
// before use.
func Extract(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if Valid(input) {
		return input
	}

	for _, p := range patterns {
		m := p.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		id := invalidChars.ReplaceAllString(m[1], "")
		if Valid(id) {
			return id
		}
	}

	return input
}
