package charts

import (
	"fmt"
	"sort"

	"twitter-dashboard/src/tables"
)

// Option is the subset of the ECharts option schema the dashboard
// uses. Options are marshaled to JSON and handed to echarts.init on
// the client, which supplies every default not set here.
type Option struct {
	Color   []string `json:"color,omitempty"`
	Title   Title    `json:"title"`
	Tooltip Tooltip  `json:"tooltip"`
	Grid    *Grid    `json:"grid,omitempty"`
	XAxis   Axis     `json:"xAxis"`
	YAxis   Axis     `json:"yAxis"`
	Series  []Series `json:"series"`
}

type Title struct {
	Text string `json:"text"`
	Left string `json:"left,omitempty"`
}

type Tooltip struct {
	Trigger string `json:"trigger"`
}

type Grid struct {
	Left         string `json:"left,omitempty"`
	Right        string `json:"right,omitempty"`
	Bottom       string `json:"bottom,omitempty"`
	ContainLabel bool   `json:"containLabel"`
}

type Axis struct {
	Type string   `json:"type"`
	Name string   `json:"name,omitempty"`
	Data []string `json:"data,omitempty"`
}

type Series struct {
	Type       string     `json:"type"`
	Name       string     `json:"name,omitempty"`
	Data       any        `json:"data"`
	ColorBy    string     `json:"colorBy,omitempty"`
	Smooth     bool       `json:"smooth,omitempty"`
	Symbol     string     `json:"symbol,omitempty"`
	SymbolSize int        `json:"symbolSize,omitempty"`
	ItemStyle  *ItemStyle `json:"itemStyle,omitempty"`
	LineStyle  *LineStyle `json:"lineStyle,omitempty"`
}

type ItemStyle struct {
	Color string `json:"color,omitempty"`
}

type LineStyle struct {
	Color string `json:"color,omitempty"`
}

// Sequential palettes matching the batch pipeline's report styling:
// teal for word frequency, plasma for user engagement.
var (
	tealPalette = []string{
		"#0d585f", "#17707a", "#238b8d", "#39a699", "#5cbfa5",
		"#86d4b1", "#b2e5c2", "#d1eeca",
	}
	plasmaPalette = []string{
		"#f0f921", "#fdb42f", "#ed7953", "#d8576b", "#bd3786",
		"#9c179e", "#7201a8", "#46039f", "#0d0887",
	}
	sentimentColor = "#006699"
)

// WordCountChart builds the horizontal bar chart of word frequency.
//
// It takes the first topN rows in file order — the aggregation step
// writes them ranked by count, so the head of the file is the top-N —
// and sorts only that subset ascending, which puts the largest bar at
// the top of a horizontal bar chart. Rows past topN never appear, even
// if the file order was not actually ranked.
func WordCountChart(rows []tables.WordCount, topN int) Option {
	if len(rows) > topN {
		rows = rows[:topN]
	}
	top := make([]tables.WordCount, len(rows))
	copy(top, rows)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalCount < top[j].TotalCount
	})

	words := make([]string, len(top))
	counts := make([]int, len(top))
	for i, row := range top {
		words[i] = row.Word
		counts[i] = row.TotalCount
	}

	return Option{
		Color:   tealPalette,
		Title:   Title{Text: fmt.Sprintf("Top %d Most Frequent Words (MapReduce 1)", topN)},
		Tooltip: Tooltip{Trigger: "axis"},
		Grid:    &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true},
		XAxis:   Axis{Type: "value", Name: "Total Count"},
		YAxis:   Axis{Type: "category", Name: "Word", Data: words},
		Series: []Series{{
			Type:    "bar",
			Name:    "Total Count",
			Data:    counts,
			ColorBy: "data",
		}},
	}
}

// SentimentLineChart builds the daily average sentiment trend line.
// Points are sorted by ascending date before plotting; the input row
// order is whatever the aggregation step happened to emit.
func SentimentLineChart(rows []tables.DailySentiment) Option {
	sorted := make([]tables.DailySentiment, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([][2]any, len(sorted))
	for i, row := range sorted {
		points[i] = [2]any{row.Date.Format("2006-01-02"), row.AvgSentiment}
	}

	return Option{
		Title:   Title{Text: "Daily Average Sentiment Trend (MapReduce 2)"},
		Tooltip: Tooltip{Trigger: "axis"},
		Grid:    &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true},
		XAxis:   Axis{Type: "time", Name: "Date"},
		YAxis:   Axis{Type: "value", Name: "Average Sentiment Score"},
		Series: []Series{{
			Type:       "line",
			Name:       "Average Sentiment Score",
			Data:       points,
			Smooth:     true,
			Symbol:     "circle",
			SymbolSize: 5,
			ItemStyle:  &ItemStyle{Color: sentimentColor},
			LineStyle:  &LineStyle{Color: sentimentColor},
		}},
	}
}

// UserEngagementChart builds the horizontal bar chart of the most
// engaged users. Same head-then-sort shaping as WordCountChart.
func UserEngagementChart(rows []tables.UserStat, topN int) Option {
	if len(rows) > topN {
		rows = rows[:topN]
	}
	top := make([]tables.UserStat, len(rows))
	copy(top, rows)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalEngagement < top[j].TotalEngagement
	})

	users := make([]string, len(top))
	engagement := make([]int, len(top))
	for i, row := range top {
		users[i] = row.User
		engagement[i] = row.TotalEngagement
	}

	return Option{
		Color:   plasmaPalette,
		Title:   Title{Text: fmt.Sprintf("Top %d Most Engaged Users (MapReduce 3)", topN)},
		Tooltip: Tooltip{Trigger: "axis"},
		Grid:    &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true},
		XAxis:   Axis{Type: "value", Name: "Total Engagement (Likes + Retweets)"},
		YAxis:   Axis{Type: "category", Name: "User ID", Data: users},
		Series: []Series{{
			Type:    "bar",
			Name:    "Total Engagement",
			Data:    engagement,
			ColorBy: "data",
		}},
	}
}
