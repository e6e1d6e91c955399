package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"twitter-dashboard/src/filter"
	"twitter-dashboard/src/tables"

	"github.com/bits-and-blooms/bloom/v3"
)

// Required input files and the pipeline step that produces each one.
// The dashboard reads these from the configured input directory.
const (
	WordCountFile      = "mapreduce_word_count.csv"
	DailySentimentFile = "mapreduce_daily_sentiment.csv"
	UserStatsFile      = "mapreduce_user_stats.csv"
	CleanedTweetsFile  = "tweets_cleaned.csv"
)

var upstreamSteps = map[string]string{
	WordCountFile:      "the MapReduce aggregation step (04)",
	DailySentimentFile: "the MapReduce aggregation step (04)",
	UserStatsFile:      "the MapReduce aggregation step (04)",
	CleanedTweetsFile:  "the tweet cleaning step (01)",
}

// Accepted layouts for the sentiment date column. The batch pipeline
// writes plain calendar dates, but re-exports from notebooks sometimes
// carry a time component.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Mon Jan 2 15:04:05 -0700 2006", // twitter's created_at format
}

// MissingInputError reports a required CSV that was not found, along
// with the pipeline step the operator needs to re-run to produce it.
type MissingInputError struct {
	File string
	Step string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input file not found: %s (produced by %s)", e.File, e.Step)
}

// Load reads every table the dashboard needs from dir. Any missing file
// yields a *MissingInputError naming it; a row that fails numeric or
// date parsing is an error as well. When stopwords is non-nil, word
// rows matching the filter are dropped before the table is returned.
func Load(dir string, sampleRows int, stopwords *filter.StopwordFilter) (*tables.Tables, error) {
	words, err := loadWordCounts(filepath.Join(dir, WordCountFile), stopwords)
	if err != nil {
		return nil, err
	}
	sentiment, err := loadDailySentiment(filepath.Join(dir, DailySentimentFile))
	if err != nil {
		return nil, err
	}
	users, err := loadUserStats(filepath.Join(dir, UserStatsFile))
	if err != nil {
		return nil, err
	}
	tweets, err := loadCleanedTweets(filepath.Join(dir, CleanedTweetsFile), 0)
	if err != nil {
		return nil, err
	}
	// The cleaned-tweets file is read a second time, truncated, for the
	// sample table. Redundant, but it keeps the sample independent of
	// however the full table is consumed later.
	sample, err := loadCleanedTweets(filepath.Join(dir, CleanedTweetsFile), sampleRows)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded analysis outputs",
		"words", len(words),
		"sentiment_days", len(sentiment),
		"users", len(users),
		"tweets", len(tweets),
		"sample", len(sample))

	return &tables.Tables{
		WordCounts:     words,
		DailySentiment: sentiment,
		UserStats:      users,
		CleanedTweets:  tweets,
		TweetSample:    sample,
		LoadedAt:       time.Now(),
	}, nil
}

// openInput opens a required input file, translating a not-exist error
// into a MissingInputError that names the upstream step.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			name := filepath.Base(path)
			return nil, &MissingInputError{File: name, Step: upstreamSteps[name]}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func newCSVReader(f *os.File) *csv.Reader {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func loadWordCounts(path string, stopwords *filter.StopwordFilter) ([]tables.WordCount, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)

	// The word-count table promises one row per distinct word. A Bloom
	// filter catches violations cheaply; a hit may be a false positive,
	// so duplicates are only warned about, never dropped.
	seen := bloom.NewWithEstimates(1_000_000, 0.001)

	var rows []tables.WordCount
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+1, err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("%s line %d: expected 2 fields, got %d", filepath.Base(path), line, len(record))
		}
		if line == 1 && record[0] == "word" {
			continue // header row
		}
		count, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad total_count %q: %w", filepath.Base(path), line, record[1], err)
		}
		if seen.TestOrAddString(record[0]) {
			slog.Warn("Duplicate word in word-count table", "word", record[0], "line", line)
		}
		if stopwords != nil && stopwords.IsStopword(record[0]) {
			continue
		}
		rows = append(rows, tables.WordCount{Word: record[0], TotalCount: count})
	}
	return rows, nil
}

func loadDailySentiment(path string) ([]tables.DailySentiment, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)

	var rows []tables.DailySentiment
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+1, err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("%s line %d: expected 2 fields, got %d", filepath.Base(path), line, len(record))
		}
		if line == 1 && record[0] == "date" {
			continue
		}
		date, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad avg_sentiment %q: %w", filepath.Base(path), line, record[1], err)
		}
		rows = append(rows, tables.DailySentiment{Date: date, AvgSentiment: score})
	}
	return rows, nil
}

func loadUserStats(path string) ([]tables.UserStat, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)

	seen := bloom.NewWithEstimates(1_000_000, 0.001)

	var rows []tables.UserStat
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+1, err)
		}
		line++
		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", filepath.Base(path), line, len(record))
		}
		if line == 1 && record[0] == "user" {
			continue
		}
		engagement, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad total_engagement %q: %w", filepath.Base(path), line, record[1], err)
		}
		likes, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad total_likes %q: %w", filepath.Base(path), line, record[2], err)
		}
		if seen.TestOrAddString(record[0]) {
			slog.Warn("Duplicate user in user-stats table", "user", record[0], "line", line)
		}
		rows = append(rows, tables.UserStat{User: record[0], TotalEngagement: engagement, TotalLikes: likes})
	}
	return rows, nil
}

// loadCleanedTweets reads the cleaned-tweets table, stopping after
// limit rows when limit > 0. Column mapping is best-effort: the file
// carries whatever the cleaning step emitted, and the dashboard only
// consumes row counts.
func loadCleanedTweets(path string, limit int) ([]tables.Tweet, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)

	var rows []tables.Tweet
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+1, err)
		}
		line++
		if line == 1 && (record[0] == "id_str" || (len(record) > 1 && record[1] == "created_at")) {
			continue
		}
		tweet := tables.Tweet{}
		if len(record) > 0 {
			tweet.IDStr = record[0]
		}
		if len(record) > 1 {
			if createdAt, err := parseDate(record[1]); err == nil {
				tweet.Unix = createdAt.Unix()
			}
		}
		if len(record) > 2 {
			tweet.UserIDStr = record[2]
		}
		if len(record) > 3 {
			// Count parse failures are tolerated here, the field is
			// informational only.
			tweet.RetweetCount, _ = strconv.Atoi(record[3])
		}
		if len(record) > 4 {
			tweet.Text = record[4]
		}
		rows = append(rows, tweet)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
