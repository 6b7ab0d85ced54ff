package aggregators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"log-analyzer/internal/parsers"
	"log-analyzer/internal/shared/svcerrors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const softLine = `1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "-" 400 0 "-" "-" "-" "-" "-" 0.000`

func validLine(url, requestTime string) string {
	return `1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET ` + url + ` HTTP/1.1" 200 927 "-" "Lynx/2.8.8dev.9 libwww-FM/2.14" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" ` + requestTime
}

func hardLine() string {
	return validLine("/api/v2/banner/1", "abc")
}

func newTestAggregator() LogAggregator {
	return NewLogAggregator(parsers.NewLineParser(parsers.DefaultMethodOffset), Config{
		ErrorThreshold: DefaultErrorThreshold,
		MinEntries:     DefaultMinEntries,
	})
}

func newTestSource(lines ...string) LineSource {
	return NewLineSource(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// countingSource records how many lines were pulled.
type countingSource struct {
	lines []string
	pos   int
}

func (s *countingSource) Scan() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

func (s *countingSource) Text() string    { return s.lines[s.pos-1] }
func (s *countingSource) LineErr() error { return nil }
func (s *countingSource) Err() error     { return nil }

func requireServiceError(t *testing.T, err error, code, category string) {
	t.Helper()

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, code, svcErr.Code)
	assert.Equal(t, category, svcErr.Category)
}

func TestAggregate_CountsSamplesPerURL(t *testing.T) {
	t.Parallel()

	source := newTestSource(
		validLine("/api/v2/banner/25019354", "0.390"),
		validLine("/api/1/photogenic_banners/list/?server_name=WIN7RB4", "0.133"),
		validLine("/api/v2/banner/25019354", "0.100"),
		validLine("/api/v2/banner/16852664", "0.199"),
		validLine("/api/v2/banner/25019354", "0.200"),
	)

	result, err := newTestAggregator().Aggregate(context.Background(), "nginx-access-ui.log-20170630", source)
	require.NoError(t, err)

	require.Len(t, result.Statistics, 3)
	assert.Equal(t, 3, result.Statistics["/api/v2/banner/25019354"].Count())
	assert.Equal(t, 1, result.Statistics["/api/1/photogenic_banners/list/"].Count())
	assert.Equal(t, 1, result.Statistics["/api/v2/banner/16852664"].Count())

	banner := result.Statistics["/api/v2/banner/25019354"]
	assert.InDelta(t, 0.69, banner.Total(), 1e-9)
	assert.Equal(t, 0.2, banner.Median())
	assert.Equal(t, 0.39, banner.Maximum())

	assert.Equal(t, int64(5), result.TotalCount)
	assert.Equal(t, int64(5), result.LinesProcessed)
	assert.Equal(t, int64(0), result.ParseErrorCount)
	assert.InDelta(t, 1.022, result.TotalRequestTime, 1e-9)
}

func TestAggregate_DistinctURLsCountOnce(t *testing.T) {
	t.Parallel()

	urls := []string{"/a", "/b", "/c", "/d", "/e", "/f"}
	lines := make([]string, 0, len(urls))
	for _, url := range urls {
		lines = append(lines, validLine(url, "0.5"))
	}

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", newTestSource(lines...))
	require.NoError(t, err)

	require.Len(t, result.Statistics, len(urls))
	for _, url := range urls {
		assert.Equal(t, 1, result.Statistics[url].Count(), url)
	}
}

func TestAggregate_AbortsAboveErrorThreshold(t *testing.T) {
	t.Parallel()

	valid := func(i int) string { return validLine("/api/v2/slot/"+string(rune('a'+i)), "0.1") }

	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "failures first",
			lines: []string{softLine, softLine, hardLine(), softLine, hardLine(), valid(0), valid(1), valid(2), valid(3), valid(4), valid(5)},
		},
		{
			name:  "failures last",
			lines: []string{valid(0), valid(1), valid(2), valid(3), valid(4), valid(5), softLine, softLine, hardLine(), softLine, hardLine()},
		},
		{
			name:  "interleaved",
			lines: []string{valid(0), softLine, valid(1), hardLine(), valid(2), softLine, valid(3), hardLine(), valid(4), softLine, valid(5)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Len(t, tt.lines, 11)
			result, err := newTestAggregator().Aggregate(context.Background(), "test.log", newTestSource(tt.lines...))

			assert.Nil(t, result)
			requireServiceError(t, err, "AGG_2000", "aborted")
		})
	}
}

func TestAggregate_SucceedsBelowErrorThreshold(t *testing.T) {
	t.Parallel()

	lines := []string{
		softLine,
		validLine("/api/v2/banner/1", "0.1"),
		hardLine(),
		validLine("/api/v2/banner/2", "0.2"),
		validLine("/api/v2/banner/3", "0.3"),
		softLine,
		validLine("/api/v2/banner/4", "0.4"),
		validLine("/api/v2/banner/5", "0.5"),
		hardLine(),
		validLine("/api/v2/banner/6", "0.6"),
		validLine("/api/v2/banner/7", "0.7"),
	}

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", newTestSource(lines...))
	require.NoError(t, err)

	assert.Equal(t, int64(11), result.LinesProcessed)
	assert.Equal(t, int64(4), result.ParseErrorCount)
	assert.Equal(t, int64(7), result.TotalCount)
	require.Len(t, result.Statistics, 7)
	for i := 1; i <= 7; i++ {
		assert.Contains(t, result.Statistics, "/api/v2/banner/"+string(rune('0'+i)))
	}
}

func TestAggregate_BreakerWaitsForMinEntries(t *testing.T) {
	t.Parallel()

	lines := make([]string, DefaultMinEntries)
	for i := range lines {
		lines[i] = softLine
	}

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", newTestSource(lines...))
	require.NoError(t, err)
	assert.Empty(t, result.Statistics)
	assert.Equal(t, int64(DefaultMinEntries), result.ParseErrorCount)

	lines = append(lines, softLine)
	result, err = newTestAggregator().Aggregate(context.Background(), "test.log", newTestSource(lines...))
	assert.Nil(t, result)
	requireServiceError(t, err, "AGG_2000", "aborted")
}

func TestAggregate_StopsReadingWhenBreakerTrips(t *testing.T) {
	t.Parallel()

	source := &countingSource{}
	for i := 0; i < 100; i++ {
		source.lines = append(source.lines, softLine)
	}

	_, err := newTestAggregator().Aggregate(context.Background(), "test.log", source)
	requireServiceError(t, err, "AGG_2000", "aborted")
	assert.Equal(t, DefaultMinEntries+1, source.pos)
}

func TestAggregate_SoftAndHardErrorsCountedAlikeLoggedApart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	source := newTestSource(
		validLine("/api/v2/banner/1", "0.1"),
		softLine,
		validLine("/api/v2/banner/2", "0.2"),
		hardLine(),
	)

	result, err := newTestAggregator().Aggregate(ctx, "nginx-access-ui.log-20170630", source)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ParseErrorCount)
	assert.Equal(t, int64(2), result.TotalCount)

	type logRecord struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		LogPath string `json:"log_path"`
		LogLine string `json:"log_line"`
		Error   string `json:"error"`
	}
	var records []logRecord
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record logRecord
		require.NoError(t, json.Unmarshal([]byte(raw), &record))
		records = append(records, record)
	}

	var soft, hard *logRecord
	for i := range records {
		switch records[i].Message {
		case "skipped log line":
			soft = &records[i]
		case "failed to parse log line":
			hard = &records[i]
		}
	}
	require.NotNil(t, soft)
	require.NotNil(t, hard)

	assert.Equal(t, "debug", soft.Level)
	assert.Equal(t, parsers.ErrNoHTTPMethod.Error(), soft.Error)
	assert.Equal(t, softLine, soft.LogLine)

	assert.Equal(t, "error", hard.Level)
	assert.Contains(t, hard.Error, parsers.ErrInvalidRequestTime.Error())
	assert.Equal(t, "nginx-access-ui.log-20170630", hard.LogPath)
	assert.Equal(t, hardLine(), hard.LogLine)
}

func TestAggregate_RejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	source := newTestSource(
		validLine("/api/v2/banner/1", "0.1"),
		validLine("?server_name=WIN7RB4", "0.1"), // empty URL
		validLine("/api/v2/banner/2", "-0.5"),
		validLine("/api/v2/banner/3", "NaN"),
		validLine("/api/v2/banner/4", "+Inf"),
	)

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", source)
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.ParseErrorCount)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Len(t, result.Statistics, 1)
	assert.Contains(t, result.Statistics, "/api/v2/banner/1")
}

func TestAggregate_InvalidUTF8IsParseError(t *testing.T) {
	t.Parallel()

	source := newTestSource(
		validLine("/api/v2/banner/1", "0.1"),
		validLine("/api/v2/\xff\xfe", "0.1"),
	)

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", source)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ParseErrorCount)
	assert.Len(t, result.Statistics, 1)
}

func TestAggregate_EmptyLog(t *testing.T) {
	t.Parallel()

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", NewLineSource(strings.NewReader("")))
	require.NoError(t, err)
	assert.Empty(t, result.Statistics)
	assert.Equal(t, int64(0), result.TotalCount)
	assert.Equal(t, int64(0), result.LinesProcessed)
}

func TestAggregate_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestAggregator().Aggregate(ctx, "test.log", newTestSource(validLine("/a", "0.1")))
	assert.Nil(t, result)
	requireServiceError(t, err, "AGG_2001", "aborted")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate_ReadFailure(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("input/output error")
	reader := io.MultiReader(strings.NewReader(validLine("/a", "0.1")+"\n"), iotest.ErrReader(errDisk))

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", NewLineSource(reader))
	assert.Nil(t, result)
	requireServiceError(t, err, "AGG_9000", "internal")
	assert.ErrorIs(t, err, errDisk)
}

func TestAggregate_OversizedLineIsParseError(t *testing.T) {
	t.Parallel()

	lines := make([]string, 0, 101)
	for i := 0; i < 50; i++ {
		lines = append(lines, validLine("/before", "0.1"))
	}
	lines = append(lines, validLine("/"+strings.Repeat("a", maxLineBytes), "0.1"))
	for i := 0; i < 50; i++ {
		lines = append(lines, validLine("/after", "0.2"))
	}

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	result, err := newTestAggregator().Aggregate(ctx, "test.log", newTestSource(lines...))
	require.NoError(t, err)

	assert.Equal(t, int64(101), result.LinesProcessed)
	assert.Equal(t, int64(1), result.ParseErrorCount)
	assert.Equal(t, int64(100), result.TotalCount)
	assert.Len(t, result.Statistics, 2)
	assert.Equal(t, 50, result.Statistics["/after"].Count())
	assert.Contains(t, buf.String(), "failed to read log line")
	assert.Contains(t, buf.String(), ErrLineTooLong.Error())
}

func TestAggregate_RejectsEntryOverflowingTotal(t *testing.T) {
	t.Parallel()

	source := newTestSource(
		validLine("/huge", "1e308"),
		validLine("/huge", "1e308"),
		validLine("/small", "0.1"),
	)

	result, err := newTestAggregator().Aggregate(context.Background(), "test.log", source)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.ParseErrorCount)
	assert.Equal(t, int64(2), result.TotalCount)
	assert.False(t, math.IsInf(result.TotalRequestTime, 0))
	assert.Equal(t, 1, result.Statistics["/huge"].Count())
	assert.False(t, math.IsInf(result.Statistics["/huge"].Total(), 0))
}
