package dashboard

import (
	"log/slog"
	"math"
	"strconv"

	"twitter-dashboard/src/tables"

	"github.com/dustin/go-humanize"
)

// Summary holds the three headline statistics shown at the top of the
// dashboard.
type Summary struct {
	TotalTweets int
	UniqueUsers int
	AvgLikes    float64
}

// BuildSummary computes the headline statistics from the loaded tables.
// Average likes per tweet is rounded to 2 decimal places. An empty
// cleaned-tweets table reports an average of 0 instead of dividing by
// zero; the dashboard still renders, the operator just sees empty data.
func BuildSummary(t *tables.Tables) Summary {
	totalTweets := len(t.CleanedTweets)
	uniqueUsers := len(t.UserStats)

	totalLikes := 0
	for _, u := range t.UserStats {
		totalLikes += u.TotalLikes
	}

	avgLikes := 0.0
	if totalTweets > 0 {
		avgLikes = math.Round(float64(totalLikes)/float64(totalTweets)*100) / 100
	} else {
		slog.Warn("Cleaned-tweets table is empty, reporting 0 average likes")
	}

	return Summary{
		TotalTweets: totalTweets,
		UniqueUsers: uniqueUsers,
		AvgLikes:    avgLikes,
	}
}

// Card is one rendered stat block: a big value over a label.
type Card struct {
	Value string
	Label string
}

// Cards formats the summary for display, with thousands separators on
// the integer stats.
func (s Summary) Cards() []Card {
	return []Card{
		{Value: humanize.Comma(int64(s.TotalTweets)), Label: "Total Tweets Processed"},
		{Value: humanize.Comma(int64(s.UniqueUsers)), Label: "Unique Users Analyzed"},
		{Value: strconv.FormatFloat(s.AvgLikes, 'f', -1, 64), Label: "Avg. Likes per Tweet"},
	}
}
