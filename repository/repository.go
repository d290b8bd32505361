package repository

import (
	"context"

	"github.com/VishalRathod21/yt-transcript/models"
)

// TranscriptRepository caches fetched transcripts. The acquisition layer
// itself stays stateless; the cache sits in front of it.
type TranscriptRepository interface {
	// Find returns the cached transcript for a (video, language) pair,
	// or a not-found error.
	Find(ctx context.Context, videoID, language string) (*models.Transcript, error)

	// Save inserts or replaces the cached transcript.
	Save(ctx context.Context, transcript *models.Transcript) error
}
