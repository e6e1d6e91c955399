package tables

import "time"

// WordCount is one row of the word-count table: a distinct word and the
// number of times it appeared across the analyzed tweets.
type WordCount struct {
	Word       string `json:"word"`
	TotalCount int    `json:"total_count"`
}

// DailySentiment is one row of the daily-sentiment table: the average
// sentiment score of all tweets posted on a calendar date.
type DailySentiment struct {
	Date         time.Time `json:"date"`
	AvgSentiment float64   `json:"avg_sentiment"`
}

// UserStat is one row of the user-stats table.
type UserStat struct {
	User            string `json:"user"`
	TotalEngagement int    `json:"total_engagement"`
	TotalLikes      int    `json:"total_likes"`
}

// Tweet represents a cleaned tweet row. Only a handful of fields are
// mapped; the dashboard consumes row counts, not tweet contents.
type Tweet struct {
	IDStr        string `json:"id_str"`
	Unix         int64  `json:"unix"`
	UserIDStr    string `json:"user_id_str"`
	Text         string `json:"text"`
	RetweetCount int    `json:"retweet_count"`
}

// Tables holds every table the batch pipeline produced, loaded once and
// never mutated. All renderers receive it by reference instead of
// reading package-level state.
type Tables struct {
	WordCounts     []WordCount
	DailySentiment []DailySentiment
	UserStats      []UserStat
	CleanedTweets  []Tweet

	// TweetSample is a fixed-size prefix of the cleaned tweets, kept
	// for the emotion panel the upstream pipeline does not export yet.
	// Nothing in the current layout renders it.
	TweetSample []Tweet

	// LoadedAt records when this snapshot was read from disk.
	LoadedAt time.Time
}
