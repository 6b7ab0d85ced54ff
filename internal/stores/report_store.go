package stores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"log-analyzer/internal/shared/filestorages"
)

const reportKeyLayout = "report-2006.01.02.html"

var (
	ErrReportAlreadyExists = errors.New("report already exists")
)

// ReportStore keeps one rendered report per log date. Reports are published
// atomically, so a report either exists in full or not at all.
//
// Without overwrite, Put is a create-if-not-exists: when two runs race for the
// same date, the second one gets ErrReportAlreadyExists instead of replacing the
// first report.
type ReportStore interface {
	Exists(ctx context.Context, date time.Time) (bool, error)
	// Put stores the report read from r and returns its key.
	Put(ctx context.Context, date time.Time, r io.Reader, overwrite bool) (string, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage}
}

func (s *reportStore) Exists(ctx context.Context, date time.Time) (bool, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.getKey(date))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check report: %w", err)
	}
	_ = readCloser.Close()
	return true, nil
}

func (s *reportStore) Put(ctx context.Context, date time.Time, r io.Reader, overwrite bool) (string, error) {
	key := s.getKey(date)
	result, err := s.fileStorage.Put(ctx, key, r, filestorages.PutOptions{AllowOverwrite: overwrite})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return "", ErrReportAlreadyExists
		}
		return "", fmt.Errorf("failed to put report: %w", err)
	}
	return result.FileKey, nil
}

func (s *reportStore) getKey(date time.Time) string {
	return date.Format(reportKeyLayout)
}
