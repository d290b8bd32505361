package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/VishalRathod21/yt-transcript/errors"
	"github.com/VishalRathod21/yt-transcript/models"
)

const (
	saveTranscriptQuery = `
        INSERT OR REPLACE INTO transcripts (
            video_id, language, segments, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?)
    `

	getTranscriptQuery = `
        SELECT video_id, language, segments, created_at, updated_at
        FROM transcripts WHERE video_id = ? AND language = ?
    `
)

type statements struct {
	save *sql.Stmt
	get  *sql.Stmt
}

// Repository is the sqlite-backed transcript cache.
type Repository struct {
	db         *sql.DB
	statements statements
}

func NewRepository(db *sql.DB) (*Repository, error) {
	save, err := db.Prepare(saveTranscriptQuery)
	if err != nil {
		return nil, errors.Internal("sqlite.NewRepository", err, "Failed to prepare save statement")
	}
	get, err := db.Prepare(getTranscriptQuery)
	if err != nil {
		save.Close()
		return nil, errors.Internal("sqlite.NewRepository", err, "Failed to prepare get statement")
	}
	return &Repository{db: db, statements: statements{save: save, get: get}}, nil
}

func (r *Repository) Close() error {
	r.statements.save.Close()
	r.statements.get.Close()
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, transcript *models.Transcript) error {
	const op = "SQLiteRepository.Save"

	for i := 0; i < 3; i++ { // Simple retry on lock contention
		err := r.save(ctx, transcript)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save transcript")
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return errors.Internal(op, nil, "Failed after retries")
}

func (r *Repository) save(ctx context.Context, transcript *models.Transcript) error {
	now := time.Now()
	createdAt := transcript.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.statements.save.ExecContext(ctx,
		transcript.VideoID,
		transcript.Language,
		string(transcript.Segments),
		createdAt,
		now,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, videoID, language string) (*models.Transcript, error) {
	const op = "SQLiteRepository.Find"

	transcript := &models.Transcript{}
	var segments string

	err := r.statements.get.QueryRowContext(ctx, videoID, language).Scan(
		&transcript.VideoID,
		&transcript.Language,
		&segments,
		&transcript.CreatedAt,
		&transcript.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotAvailable(op, nil, "Transcript not cached")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query transcript")
	}

	transcript.Segments = []byte(segments)
	return transcript, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}
