// src/services/settlement_service.go
package services

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/sellerfolio/backend/src/database"
	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/parsers"
	"github.com/username/sellerfolio/backend/src/processors"
)

const (
	// Cache for the full period index. The index is a pure function of the
	// stored file set, so it never expires on its own; it is invalidated
	// wholesale whenever a file is added or removed.
	ckPeriodIndex = "res_period_index"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type settlementServiceImpl struct {
	processor   *processors.SettlementProcessor
	indexer     *processors.PeriodIndexer
	reportCache *cache.Cache
}

func NewSettlementService(
	processor *processors.SettlementProcessor,
	indexer *processors.PeriodIndexer,
	reportCache *cache.Cache,
) SettlementService {
	return &settlementServiceImpl{
		processor:   processor,
		indexer:     indexer,
		reportCache: reportCache,
	}
}

func (s *settlementServiceImpl) ProcessUpload(fileReader io.Reader, fileName string, fileSize int64) (*UploadResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "fileName", fileName, "fileSize", fileSize)

	parsed, err := parsers.ParseFile(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	if parsed.Type == models.SourceUnknown {
		// Silent per-file discard: no rows stored, no error surfaced.
		logger.L.Warn("Upload matched no known schema, nothing stored", "fileName", fileName)
		periods, _ := s.GetPeriods()
		return &UploadResult{FileName: fileName, SourceType: parsed.Type, Skipped: true, Periods: periods}, nil
	}

	rowsJSON, err := json.Marshal(parsed.Rows)
	if err != nil {
		return nil, fmt.Errorf("error encoding rows for storage: %w", err)
	}

	importID := uuid.NewString()

	// Upsert by file name: re-importing a file replaces the prior entry, so
	// an identical re-upload can never double-count.
	_, err = database.DB.Exec(`
		INSERT INTO loaded_files (file_name, source_type, file_size, row_count, import_id, imported_at, rows)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			source_type = excluded.source_type,
			file_size = excluded.file_size,
			row_count = excluded.row_count,
			import_id = excluded.import_id,
			imported_at = excluded.imported_at,
			rows = excluded.rows`,
		fileName, parsed.Type, fileSize, len(parsed.Rows), importID, time.Now().UTC(), string(rowsJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: upserting file %s: %v", ErrStorageFailure, fileName, err)
	}

	s.InvalidateCache()

	periods, err := s.GetPeriods()
	if err != nil {
		return nil, err
	}

	logger.L.Info("ProcessUpload END", "fileName", fileName, "sourceType", parsed.Type,
		"rowCount", len(parsed.Rows), "duration", time.Since(overallStartTime))
	return &UploadResult{
		FileName:   fileName,
		SourceType: parsed.Type,
		RowCount:   len(parsed.Rows),
		ImportID:   importID,
		Periods:    periods,
	}, nil
}

// InvalidateCache drops the cached period index, forcing a complete rebuild
// on the next query. Aggregation has no incremental-update capability, so
// this simple strategy is what keeps the numbers consistent.
func (s *settlementServiceImpl) InvalidateCache() {
	s.reportCache.Delete(ckPeriodIndex)
	logger.L.Info("Invalidated period index cache")
}

// getPeriodIndex is the central function to populate the summary cache on a
// cache miss.
func (s *settlementServiceImpl) getPeriodIndex() (map[string]*models.PeriodSummary, error) {
	if cached, found := s.reportCache.Get(ckPeriodIndex); found {
		logger.L.Debug("Cache hit for period index")
		return cached.(map[string]*models.PeriodSummary), nil
	}

	logger.L.Info("Cache miss for period index, recalculating from DB")
	rows, err := fetchWorkingRows()
	if err != nil {
		return nil, err
	}

	index := s.indexer.BuildIndex(rows)
	s.reportCache.Set(ckPeriodIndex, index, cache.NoExpiration)
	logger.L.Info("Populated period index cache from DB", "periods", len(index), "rows", len(rows))
	return index, nil
}

func (s *settlementServiceImpl) GetSummary(period, subPeriod string) (*models.PeriodSummary, error) {
	index, err := s.getPeriodIndex()
	if err != nil {
		return nil, err
	}

	summary, ok := index[period]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
	}

	if period == processors.PeriodAll || subPeriod == "" || subPeriod == processors.SubPeriodAll {
		return summary, nil
	}

	// Sub-period queries re-aggregate the month's raw rows on every call;
	// they are interactive and infrequent, so no caching.
	return s.indexer.Refine(summary, subPeriod), nil
}

func (s *settlementServiceImpl) GetPeriods() ([]string, error) {
	index, err := s.getPeriodIndex()
	if err != nil {
		return nil, err
	}
	return processors.PeriodKeys(index), nil
}

func (s *settlementServiceImpl) ListFiles() ([]models.LoadedFile, error) {
	rows, err := database.DB.Query(`SELECT file_name, source_type, file_size, row_count, import_id, imported_at FROM loaded_files ORDER BY imported_at DESC, file_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying loaded files: %w", err)
	}
	defer rows.Close()

	var files []models.LoadedFile
	for rows.Next() {
		var f models.LoadedFile
		if scanErr := rows.Scan(&f.FileName, &f.SourceType, &f.FileSize, &f.RowCount, &f.ImportID, &f.ImportedAt); scanErr != nil {
			return nil, fmt.Errorf("error scanning loaded file row: %w", scanErr)
		}
		files = append(files, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over loaded file rows: %w", err)
	}
	return files, nil
}

func (s *settlementServiceImpl) DeleteFile(fileName string) error {
	res, err := database.DB.Exec(`DELETE FROM loaded_files WHERE file_name = ?`, fileName)
	if err != nil {
		return fmt.Errorf("%w: deleting file %s: %v", ErrStorageFailure, fileName, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrFileNotFound, fileName)
	}

	s.InvalidateCache()
	logger.L.Info("Deleted loaded file", "fileName", fileName)
	return nil
}

// fetchWorkingRows assembles the working dataset: the union of rows of all
// loaded files, excluding child-ASIN mapping files.
func fetchWorkingRows() ([]models.SettlementRow, error) {
	logger.L.Debug("Fetching loaded file rows from DB")
	rows, err := database.DB.Query(`SELECT file_name, rows FROM loaded_files WHERE source_type != ? ORDER BY file_name ASC`, models.SourceChildASIN)
	if err != nil {
		return nil, fmt.Errorf("error querying loaded file rows: %w", err)
	}
	defer rows.Close()

	var working []models.SettlementRow
	for rows.Next() {
		var fileName, rowsJSON string
		if scanErr := rows.Scan(&fileName, &rowsJSON); scanErr != nil {
			return nil, fmt.Errorf("error scanning rows for file: %w", scanErr)
		}
		var fileRows []models.SettlementRow
		if err := json.Unmarshal([]byte(rowsJSON), &fileRows); err != nil {
			return nil, fmt.Errorf("error decoding stored rows for file %s: %w", fileName, err)
		}
		working = append(working, fileRows...)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over loaded file rows: %w", err)
	}
	logger.L.Info("DB fetch complete.", "rowCount", len(working))
	return working, nil
}
