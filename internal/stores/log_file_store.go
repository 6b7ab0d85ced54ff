package stores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"log-analyzer/internal/models"
	"log-analyzer/internal/shared/filestorages"
	"log-analyzer/internal/shared/loggers"

	"github.com/klauspost/compress/gzip"
)

const (
	logDateMarker = ".log-"
	logDateLayout = "20060102"
)

var (
	ErrLogFileNotFound = errors.New("log file not found")
)

// LogFileStore finds the access logs rotated into the log directory.
// A log file carries its date after a ".log-" marker, e.g. nginx-access-ui.log-20170630
// or nginx-access-ui.log-20170630.gz.
type LogFileStore interface {
	// FindLatest returns the log file with the newest date, searching subdirectories too.
	// Of several files with the same date, the first key in lexical order wins.
	FindLatest(ctx context.Context) (*models.LogFile, error)
	// Open returns the decompressed content of the log file.
	Open(ctx context.Context, logFile *models.LogFile) (io.ReadCloser, error)
}

type logFileStore struct {
	fileStorage filestorages.FileStorage
}

func NewLogFileStore(fileStorage filestorages.FileStorage) LogFileStore {
	return &logFileStore{fileStorage: fileStorage}
}

func (s *logFileStore) FindLatest(ctx context.Context) (*models.LogFile, error) {
	logger := loggers.Ctx(ctx)

	keys, err := s.fileStorage.List(ctx)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrLogFileNotFound
		}
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	var latest *models.LogFile
	for _, key := range keys {
		name := path.Base(key)
		idx := strings.Index(name, logDateMarker)
		if idx == -1 {
			logger.Info().Str(loggers.FieldLogPath, key).Msg("skipped file, not a log")
			continue
		}

		date, ok := parseLogDate(name[idx+len(logDateMarker):])
		if !ok {
			logger.Error().Str(loggers.FieldLogPath, key).Msg("wrong or unexpected date format in the file name")
			continue
		}

		if latest == nil || date.After(latest.Date) {
			latest = &models.LogFile{Key: key, Date: date}
		}
	}

	if latest == nil {
		return nil, ErrLogFileNotFound
	}
	return latest, nil
}

func (s *logFileStore) Open(ctx context.Context, logFile *models.LogFile) (io.ReadCloser, error) {
	readCloser, err := s.fileStorage.Get(ctx, logFile.Key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrLogFileNotFound
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	if !logFile.IsGzip() {
		return readCloser, nil
	}

	gzipReader, err := gzip.NewReader(readCloser)
	if err != nil {
		_ = readCloser.Close()
		return nil, fmt.Errorf("failed to open gzip log file: %w", err)
	}
	return &gzipReadCloser{Reader: gzipReader, file: readCloser}, nil
}

// parseLogDate reads the 8 digit date that starts s; anything after it is ignored.
func parseLogDate(s string) (time.Time, bool) {
	if len(s) < len(logDateLayout) {
		return time.Time{}, false
	}
	date, err := time.Parse(logDateLayout, s[:len(logDateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// gzipReadCloser closes both the decompressor and the underlying file.
type gzipReadCloser struct {
	*gzip.Reader
	file io.Closer
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}
