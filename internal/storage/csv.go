package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/domain"
	apperrors "github.com/kapu/youtube-analytics-go/pkg/errors"
)

// SnapshotStore appends channel snapshot rows to a CSV file, one row per
// channel per run. The header is written only when the file is created;
// prior contents are never read back into a run's accumulator.
type SnapshotStore struct {
	path   string
	logger *zap.Logger
}

func NewSnapshotStore(path string, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{path: path, logger: logger}
}

func snapshotHeader() []string {
	header := []string{"Date", "ChannelName"}
	for _, category := range domain.Categories() {
		header = append(header,
			fmt.Sprintf("%s_Count", category),
			fmt.Sprintf("%s_Views", category),
			fmt.Sprintf("%s_Avg_Views_Per_Video", category))
	}
	return header
}

// Append writes the rows, creating the file with a header on first use.
func (s *SnapshotStore) Append(rows []domain.ChannelReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open snapshot file", s.path, "append", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if writeHeader {
		if err := writer.Write(snapshotHeader()); err != nil {
			return apperrors.NewStorageError("failed to write header", s.path, "append", err)
		}
	}

	for _, row := range rows {
		record := []string{row.Date, row.ChannelName}
		for _, category := range domain.Categories() {
			totals := row.Totals[category]
			record = append(record,
				strconv.Itoa(totals.Count),
				strconv.FormatUint(totals.Views, 10),
				strconv.FormatFloat(totals.AvgViews, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write row", s.path, "append", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush snapshot file", s.path, "append", err)
	}

	s.logger.Info("Snapshot rows appended",
		zap.String("file", s.path),
		zap.Int("rows", len(rows)),
		zap.Bool("headerWritten", writeHeader))

	return nil
}

// Read parses the whole snapshot file back into rows, for report
// generation only.
func (s *SnapshotStore) Read() ([]domain.ChannelReportRow, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open snapshot file", s.path, "read", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to parse snapshot file", s.path, "read", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]domain.ChannelReportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(snapshotHeader()) {
			s.logger.Warn("Malformed snapshot record skipped",
				zap.Int("fields", len(record)))
			continue
		}

		row := domain.ChannelReportRow{
			Date:        record[0],
			ChannelName: record[1],
			Totals:      make(map[domain.Category]domain.CategoryTotals, len(domain.Categories())),
		}

		col := 2
		valid := true
		for _, category := range domain.Categories() {
			count, errCount := strconv.Atoi(record[col])
			views, errViews := strconv.ParseUint(record[col+1], 10, 64)
			avg, errAvg := strconv.ParseFloat(record[col+2], 64)
			if errCount != nil || errViews != nil || errAvg != nil {
				valid = false
				break
			}
			row.Totals[category] = domain.CategoryTotals{Count: count, Views: views, AvgViews: avg}
			col += 3
		}
		if !valid {
			s.logger.Warn("Unparseable snapshot record skipped",
				zap.String("date", record[0]),
				zap.String("channel", record[1]))
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// WriteVideoDetails writes a per-video detail report, overwriting any
// previous file. The header is always present, even for an empty report.
func WriteVideoDetails(path string, rows []domain.VideoDetailRow, logger *zap.Logger) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create detail report", path, "write", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Date", "ChannelName", "VideoType", "VideoID", "Title", "ViewCount", "LikeCount", "PublishedAt"}
	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("failed to write header", path, "write", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.ChannelName,
			string(row.Category),
			row.VideoID,
			row.Title,
			strconv.FormatUint(row.ViewCount, 10),
			strconv.FormatUint(row.LikeCount, 10),
			row.PublishedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write row", path, "write", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush detail report", path, "write", err)
	}

	logger.Info("Video detail report written",
		zap.String("file", path),
		zap.Int("rows", len(rows)))

	return nil
}
