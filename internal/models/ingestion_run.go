package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IngestionRun records one batch import of equipment export files.
// FileResults holds the per-file outcome (inserted/updated counts or the
// skip reason) as JSON.
type IngestionRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Folder       string         `json:"folder"`
	TotalFiles   int            `json:"total_files"`
	FilesOK      int            `json:"files_ok"`
	FilesSkipped int            `json:"files_skipped"`
	Inserted     int            `json:"inserted"`
	Updated      int            `json:"updated"`
	Status       string         `json:"status"`
	FileResults  datatypes.JSON `json:"file_results"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
}
