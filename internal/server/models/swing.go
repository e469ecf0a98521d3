package models

import "time"

// Swing lifecycle statuses.
const (
	SwingStatusUploaded   = "UPLOADED"
	SwingStatusProcessing = "PROCESSING"
	SwingStatusCompleted  = "COMPLETED"
	SwingStatusFailed     = "FAILED"
)

// SwingMetadata describes the uploaded video file.
type SwingMetadata struct {
	Resolution    *string `json:"resolution,omitempty"`
	FPS           *int    `json:"fps,omitempty"`
	FileSizeBytes *int64  `json:"file_size_bytes,omitempty"`
	// AnalysisNotes is filled in by the analysis worker.
	AnalysisNotes *string `json:"analysis_notes,omitempty"`
}

// Swing is one uploaded swing video plus its analysis state.
// VideoKey and ThumbnailKey are object-storage keys, never URLs;
// presigned URLs are minted on read.
type Swing struct {
	ID            int64
	UserID        int64
	RecordedAt    time.Time
	ClubType      *string
	IntendedShape *string
	Notes         *string
	VideoKey      string
	ThumbnailKey  *string
	DurationMs    *int
	Status        string
	Metadata      SwingMetadata
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
