package services

import (
	"errors"
	"io"

	"github.com/username/sellerfolio/backend/src/models"
)

var (
	ErrParsingFailed  = errors.New("parsing failed")
	ErrUnknownPeriod  = errors.New("unknown period")
	ErrFileNotFound   = errors.New("file not found")
	ErrStorageFailure = errors.New("storage failure")
)

// UploadResult summarizes the outcome of one file import.
type UploadResult struct {
	FileName   string   `json:"file_name"`
	SourceType string   `json:"source_type"`
	RowCount   int      `json:"row_count"`
	ImportID   string   `json:"import_id"`
	Skipped    bool     `json:"skipped"` // unknown schema, nothing stored
	Periods    []string `json:"periods"` // period keys available after this import
}

// SettlementService is the core service: file import with upsert-by-name
// semantics, period summary queries, and file management.
type SettlementService interface {
	ProcessUpload(fileReader io.Reader, fileName string, fileSize int64) (*UploadResult, error)
	GetSummary(period, subPeriod string) (*models.PeriodSummary, error)
	GetPeriods() ([]string, error)
	ListFiles() ([]models.LoadedFile, error)
	DeleteFile(fileName string) error
	InvalidateCache()
}
