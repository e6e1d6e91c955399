package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"twitter-dashboard/src/charts"
	"twitter-dashboard/src/tables"
)

// PageConfig controls the rendered page.
type PageConfig struct {
	Title    string
	TopWords int
	TopUsers int
}

// pageData is everything the layout template needs. Chart options are
// pre-marshaled JSON injected into the init script.
type pageData struct {
	Title          string
	Cards          []Card
	WordChart      template.JS
	UserChart      template.JS
	SentimentChart template.JS
}

// RenderPage builds the whole dashboard page from the loaded tables:
// summary cards, the two top-N bar charts side by side, and the
// full-width sentiment trend below them. The result is a complete HTML
// document, served as-is for the life of the snapshot.
func RenderPage(t *tables.Tables, cfg PageConfig) ([]byte, error) {
	wordJSON, err := json.Marshal(charts.WordCountChart(t.WordCounts, cfg.TopWords))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal word chart: %w", err)
	}
	userJSON, err := json.Marshal(charts.UserEngagementChart(t.UserStats, cfg.TopUsers))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user chart: %w", err)
	}
	sentimentJSON, err := json.Marshal(charts.SentimentLineChart(t.DailySentiment))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sentiment chart: %w", err)
	}

	data := pageData{
		Title:          cfg.Title,
		Cards:          BuildSummary(t).Cards(),
		WordChart:      template.JS(wordJSON),
		UserChart:      template.JS(userJSON),
		SentimentChart: template.JS(sentimentJSON),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>
    <style>
    body { background-color: #f8f9fa; padding: 20px; margin: 0; font-family: "Helvetica Neue", Helvetica, Arial, sans-serif; }
    h1 { text-align: center; color: #003366; margin-bottom: 30px; }
    h2 { color: #333333; text-align: center; }
    h3.section { color: #333333; }
    hr { border: none; border-top: 1px solid #ddd; margin: 25px 0; }
    .cards { display: flex; justify-content: center; }
    .card { flex: 1; max-width: 320px; border: 1px solid #ddd; border-radius: 5px; padding: 10px; margin: 10px; text-align: center; background-color: #fff; }
    .card .value { font-size: 1.8em; font-weight: bold; color: #003366; margin: 8px 0; }
    .card .label { color: #333333; }
    .row { display: flex; flex-wrap: wrap; }
    .half { flex: 1 1 48%; min-width: 420px; }
    .full { flex: 1 1 100%; }
    .chart { height: 480px; background-color: #fff; border: 1px solid #ddd; border-radius: 5px; margin: 10px; }
    footer { text-align: center; color: #999; margin-top: 25px; font-size: 0.85em; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>

    <h2>Key Metrics Summary</h2>
    <div class="cards">
    {{range .Cards}}
        <div class="card">
            <div class="value">{{.Value}}</div>
            <div class="label">{{.Label}}</div>
        </div>
    {{end}}
    </div>

    <hr>

    <div class="row">
        <div class="half">
            <h3 class="section">Text Analysis</h3>
            <div id="word-chart" class="chart"></div>
        </div>
        <div class="half">
            <h3 class="section">User Performance</h3>
            <div id="user-chart" class="chart"></div>
        </div>
    </div>

    <hr>

    <div class="row">
        <div class="full">
            <h3 class="section">Time-Series Analysis</h3>
            <div id="sentiment-chart" class="chart"></div>
        </div>
    </div>

    <footer>Rendered from the batch analysis outputs; reload the page after the pipeline reruns.</footer>

    <script>
    const chartDefs = [
        ['word-chart', {{.WordChart}}],
        ['user-chart', {{.UserChart}}],
        ['sentiment-chart', {{.SentimentChart}}]
    ];
    const liveCharts = [];
    for (const [id, option] of chartDefs) {
        const el = document.getElementById(id);
        if (!el) continue;
        const chart = echarts.init(el);
        chart.setOption(option);
        liveCharts.push(chart);
    }
    window.addEventListener('resize', () => liveCharts.forEach(c => c.resize()));
    </script>
</body>
</html>
`))
