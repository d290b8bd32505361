package models

import "time"

// Transcript is one cached transcript: the raw segment sequence for a
// (video, language) pair, stored as JSON so any output format can be
// assembled from a hit.
type Transcript struct {
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	Segments  []byte    `json:"segments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
