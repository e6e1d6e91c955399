package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"twitter-dashboard/src/filter"
)

// writeInputDir creates a temp directory containing the four required
// CSVs. Callers can override individual files afterwards.
func writeInputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, WordCountFile, "word,total_count\nthe,500\na,450\nrt,300\n")
	writeFile(t, dir, DailySentimentFile, "date,avg_sentiment\n2009-05-02,0.31\n2009-05-01,0.12\n")
	writeFile(t, dir, UserStatsFile, "user,total_engagement,total_likes\nalice,900,600\nbob,500,200\n")
	writeFile(t, dir, CleanedTweetsFile,
		"id_str,created_at,user_id_str,retweet_count,text\n"+
			"1,2009-05-01,u1,3,hello world\n"+
			"2,2009-05-01,u2,0,more text\n"+
			"3,2009-05-02,u1,1,and a third\n")
	return dir
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// TestLoadAllTables tests the happy path: all four files present, with
// headers, and every table lands with the right row counts and types.
func TestLoadAllTables(t *testing.T) {
	dir := writeInputDir(t)

	tbls, err := Load(dir, 1000, nil)
	if err != nil {
		t.Fatalf("Expected no error loading tables, got: %v", err)
	}

	if len(tbls.WordCounts) != 3 {
		t.Errorf("Expected 3 word rows, got %d", len(tbls.WordCounts))
	}
	if tbls.WordCounts[0].Word != "the" || tbls.WordCounts[0].TotalCount != 500 {
		t.Errorf("Expected first word row {the 500}, got %+v", tbls.WordCounts[0])
	}
	if len(tbls.DailySentiment) != 2 {
		t.Errorf("Expected 2 sentiment rows, got %d", len(tbls.DailySentiment))
	}
	// File order is preserved at load time; sorting happens in the chart builder.
	wantDate := time.Date(2009, 5, 2, 0, 0, 0, 0, time.UTC)
	if !tbls.DailySentiment[0].Date.Equal(wantDate) {
		t.Errorf("Expected first sentiment date %v, got %v", wantDate, tbls.DailySentiment[0].Date)
	}
	if tbls.DailySentiment[0].AvgSentiment != 0.31 {
		t.Errorf("Expected first sentiment 0.31, got %f", tbls.DailySentiment[0].AvgSentiment)
	}
	if len(tbls.UserStats) != 2 {
		t.Errorf("Expected 2 user rows, got %d", len(tbls.UserStats))
	}
	if tbls.UserStats[0].User != "alice" || tbls.UserStats[0].TotalEngagement != 900 || tbls.UserStats[0].TotalLikes != 600 {
		t.Errorf("Expected first user row {alice 900 600}, got %+v", tbls.UserStats[0])
	}
	if len(tbls.CleanedTweets) != 3 {
		t.Errorf("Expected 3 cleaned tweets, got %d", len(tbls.CleanedTweets))
	}
	if len(tbls.TweetSample) != 3 {
		t.Errorf("Expected full sample of 3 tweets, got %d", len(tbls.TweetSample))
	}
	if tbls.LoadedAt.IsZero() {
		t.Errorf("Expected LoadedAt to be set")
	}
}

// TestLoadMissingFile tests that removing any one required file yields
// a MissingInputError naming that file and its upstream step.
func TestLoadMissingFile(t *testing.T) {
	for _, name := range []string{WordCountFile, DailySentimentFile, UserStatsFile, CleanedTweetsFile} {
		dir := writeInputDir(t)
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			t.Fatalf("Failed to remove %s: %v", name, err)
		}

		_, err := Load(dir, 1000, nil)
		if err == nil {
			t.Fatalf("Expected an error with %s missing, got nil", name)
		}
		var missing *MissingInputError
		if !errors.As(err, &missing) {
			t.Fatalf("Expected a MissingInputError for %s, got: %v", name, err)
		}
		if missing.File != name {
			t.Errorf("Expected error to name %s, got %s", name, missing.File)
		}
		if missing.Step == "" {
			t.Errorf("Expected error for %s to name the upstream step", name)
		}
		if !strings.Contains(missing.Error(), name) {
			t.Errorf("Expected message to contain %s, got: %s", name, missing.Error())
		}
	}
}

// TestLoadBadNumericField tests that a non-numeric count fails fast
// with file and line context.
func TestLoadBadNumericField(t *testing.T) {
	dir := writeInputDir(t)
	writeFile(t, dir, WordCountFile, "word,total_count\nthe,many\n")

	_, err := Load(dir, 1000, nil)
	if err == nil {
		t.Fatal("Expected an error for a non-numeric count, got nil")
	}
	if !strings.Contains(err.Error(), WordCountFile) {
		t.Errorf("Expected error to name the file, got: %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected error to name the line, got: %v", err)
	}
}

// TestLoadBadDate tests that an unparseable sentiment date is an error.
func TestLoadBadDate(t *testing.T) {
	dir := writeInputDir(t)
	writeFile(t, dir, DailySentimentFile, "date,avg_sentiment\nyesterday,0.5\n")

	_, err := Load(dir, 1000, nil)
	if err == nil {
		t.Fatal("Expected an error for an unparseable date, got nil")
	}
	if !strings.Contains(err.Error(), "yesterday") {
		t.Errorf("Expected error to quote the bad date, got: %v", err)
	}
}

// TestLoadSampleTruncation tests that the tweet sample stops at the
// configured row count while the full table keeps everything.
func TestLoadSampleTruncation(t *testing.T) {
	dir := writeInputDir(t)

	var sb strings.Builder
	sb.WriteString("id_str,created_at,user_id_str,retweet_count,text\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "%d,2009-05-01,u%d,0,tweet number %d\n", i, i%5, i)
	}
	writeFile(t, dir, CleanedTweetsFile, sb.String())

	tbls, err := Load(dir, 10, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tbls.CleanedTweets) != 25 {
		t.Errorf("Expected 25 cleaned tweets, got %d", len(tbls.CleanedTweets))
	}
	if len(tbls.TweetSample) != 10 {
		t.Errorf("Expected sample of 10 tweets, got %d", len(tbls.TweetSample))
	}
}

// TestLoadWithStopwords tests that stopword rows are dropped from the
// word table before it is returned.
func TestLoadWithStopwords(t *testing.T) {
	dir := writeInputDir(t)

	stopwords := filter.NewStopwordFilter()
	stopwords.AddWord("rt")

	tbls, err := Load(dir, 1000, stopwords)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tbls.WordCounts) != 2 {
		t.Errorf("Expected 2 word rows after filtering, got %d", len(tbls.WordCounts))
	}
	for _, row := range tbls.WordCounts {
		if row.Word == "rt" {
			t.Errorf("Expected 'rt' to be filtered out, found %+v", row)
		}
	}
}

// TestLoadDuplicateRowsStillLoad tests that duplicate keys are kept in
// the table (detection is advisory, it only logs a warning).
func TestLoadDuplicateRowsStillLoad(t *testing.T) {
	dir := writeInputDir(t)
	writeFile(t, dir, WordCountFile, "word,total_count\nthe,500\nthe,400\n")

	tbls, err := Load(dir, 1000, nil)
	if err != nil {
		t.Fatalf("Expected no error on duplicate rows, got: %v", err)
	}
	if len(tbls.WordCounts) != 2 {
		t.Errorf("Expected both duplicate rows kept, got %d", len(tbls.WordCounts))
	}
}

// TestLoadHeaderless tests that a table without a header row loads all rows.
func TestLoadHeaderless(t *testing.T) {
	dir := writeInputDir(t)
	writeFile(t, dir, WordCountFile, "the,500\na,450\n")

	tbls, err := Load(dir, 1000, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tbls.WordCounts) != 2 {
		t.Errorf("Expected 2 word rows, got %d", len(tbls.WordCounts))
	}
}

// TestParseDateFormats tests the accepted date layouts.
func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2009-05-01", time.Date(2009, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2009-05-01 13:45:00", time.Date(2009, 5, 1, 13, 45, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := parseDate(c.in)
		if err != nil {
			t.Errorf("parseDate(%q) returned error: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("parseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := parseDate("not a date"); err == nil {
		t.Errorf("Expected an error for an unrecognized date")
	}
}
