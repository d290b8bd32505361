package errors

import (
	"errors"
	"strings"
)

// translation is one row of the cause-matching table. Rows are checked in
// order: some causes match several substrings ("members only" also contains
// nothing of "private", but a private-video message can mention both), so
// the more specific category comes first.
type translation struct {
	substrings []string
	build      func(op string, err error) *AppError
}

var translations = []translation{
	{
		substrings: []string{"no transcript", "no captions", "transcripts disabled", "subtitles are disabled"},
		build: func(op string, err error) *AppError {
			return NotAvailable(op, err, "No transcript is available for this video. Please try another video with captions.")
		},
	},
	{
		substrings: []string{"members only", "members-only"},
		build: func(op string, err error) *AppError {
			return AccessDenied(op, err, "This video is for members only.")
		},
	},
	{
		substrings: []string{"private"},
		build: func(op string, err error) *AppError {
			return AccessDenied(op, err, "This is a private video. Only the uploader can access it.")
		},
	},
	{
		substrings: []string{"age restricted", "age-restricted", "confirm your age"},
		build: func(op string, err error) *AppError {
			return AccessDenied(op, err, "Age-restricted videos are not supported.")
		},
	},
	{
		substrings: []string{"429", "too many requests", "blocked"},
		build: func(op string, err error) *AppError {
			return RateLimited(op, err, "Too many requests. Please wait a moment and try again.")
		},
	},
	{
		substrings: []string{"unavailable", "removed"},
		build: func(op string, err error) *AppError {
			return NotAvailable(op, err, "This video is not available. It may have been removed or made private.")
		},
	},
	{
		substrings: []string{"400", "bad request"},
		build: func(op string, err error) *AppError {
			return InvalidInput(op, err, "Bad request. The video ID might be invalid.")
		},
	},
	{
		substrings: []string{"404", "not found"},
		build: func(op string, err error) *AppError {
			return NotAvailable(op, err, "Video not found. Please check the video ID or URL and try again.")
		},
	},
	{
		substrings: []string{"403", "forbidden", "access denied"},
		build: func(op string, err error) *AppError {
			return AccessDenied(op, err, "Access denied. The video might have viewing restrictions.")
		},
	},
	{
		substrings: []string{"proxy", "connection", "timeout", "timed out"},
		build: func(op string, err error) *AppError {
			return Internal(op, err, "Connection to YouTube failed. Please try again later or use a different network.")
		},
	},
}

// Translate maps any lower-level failure onto the fixed error taxonomy.
// Errors already carrying a category pass through unchanged. Everything else
// goes through the substring table above; unmatched causes surface as
// Internal with the original cause text as a diagnostic suffix.
func Translate(op string, err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	cause := strings.ToLower(err.Error())
	for _, tr := range translations {
		for _, sub := range tr.substrings {
			if strings.Contains(cause, sub) {
				return tr.build(op, err)
			}
		}
	}

	return Internal(op, err, "Could not fetch transcript: "+err.Error())
}
