package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/VishalRathod21/yt-transcript/errors"
	"github.com/VishalRathod21/yt-transcript/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	repo, err := NewRepository(db)
	if err != nil {
		db.Close()
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	saved := &models.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Language: "en",
		Segments: []byte(`[{"text":"Hello","start":0,"duration":1.5}]`),
	}
	if err := repo.Save(ctx, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Find(ctx, "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.VideoID != saved.VideoID || got.Language != saved.Language {
		t.Errorf("got %q/%q", got.VideoID, got.Language)
	}
	if string(got.Segments) != string(saved.Segments) {
		t.Errorf("got segments %s", got.Segments)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestFindMissingIsNotAvailable(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Find(context.Background(), "dQw4w9WgXcQ", "en")
	if !errors.IsNotAvailable(err) {
		t.Fatalf("expected NotAvailable, got %v", err)
	}
}

func TestSaveReplacesExistingEntry(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &models.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Language: "en",
		Segments: []byte(`[{"text":"old","start":0,"duration":1}]`),
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := &models.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Language: "en",
		Segments: []byte(`[{"text":"new","start":0,"duration":1}]`),
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Find(ctx, "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if string(got.Segments) != string(second.Segments) {
		t.Errorf("got segments %s", got.Segments)
	}
}

func TestLanguagesAreSeparateEntries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, lang := range []string{"en", "fr"} {
		err := repo.Save(ctx, &models.Transcript{
			VideoID:  "dQw4w9WgXcQ",
			Language: lang,
			Segments: []byte(`[{"text":"` + lang + `","start":0,"duration":1}]`),
		})
		if err != nil {
			t.Fatalf("Save %s: %v", lang, err)
		}
	}

	en, err := repo.Find(ctx, "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("Find en: %v", err)
	}
	fr, err := repo.Find(ctx, "dQw4w9WgXcQ", "fr")
	if err != nil {
		t.Fatalf("Find fr: %v", err)
	}
	if string(en.Segments) == string(fr.Segments) {
		t.Error("expected distinct entries per language")
	}
}
