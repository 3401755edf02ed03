package status

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Reputation Bot</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            display: flex;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
        }
        .container {
            text-align: center;
            padding: 40px;
            background: rgba(255, 255, 255, 0.1);
            border-radius: 20px;
            backdrop-filter: blur(10px);
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.3);
            max-width: 600px;
        }
        h1 { font-size: 48px; margin: 0 0 20px 0; }
        .status { font-size: 24px; margin: 20px 0; }
        .info { font-size: 18px; margin: 10px 0; opacity: 0.9; }
        .badges { margin-top: 20px; }
        .badge {
            display: inline-block;
            padding: 8px 16px;
            background: rgba(255, 255, 255, 0.2);
            border-radius: 20px;
            margin: 5px;
            font-size: 14px;
        }
        .chart { margin-top: 20px; max-width: 100%; border-radius: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>⭐ Reputation Bot</h1>
        {{if .Online}}<div class="status">✅ ONLINE</div>{{else}}<div class="status">⏳ CONNECTING</div>{{end}}
        <div class="info">Servers: {{.Servers}}</div>
        <div class="info">Total Users: {{.TotalUsers}}</div>
        <div class="info">Total Reputation: {{.TotalReputation}}</div>
        <div class="info">Latency: {{.LatencyMS}}ms</div>
        <div class="badges">
            <span class="badge">Vouch: {{.VouchAmount}} Rep</span>
            <span class="badge">Cooldown: {{.CooldownMinutes}} min</span>
        </div>
        {{if .HasChart}}<img class="chart" src="/leaderboard.png" alt="Leaderboard">{{end}}
    </div>
</body>
</html>
`

// pageData is the view model of the status page.
type pageData struct {
	Online          bool
	Servers         int
	TotalUsers      int
	TotalReputation int64
	LatencyMS       int64
	VouchAmount     int64
	CooldownMinutes int64
	HasChart        bool
}

// pageRenderer renders the status page and minifies the result.
type pageRenderer struct {
	tmpl     *template.Template
	minifier *minify.M
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.New("status").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse status template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)

	return &pageRenderer{
		tmpl:     tmpl,
		minifier: m,
	}, nil
}

// Render writes the minified page for data to w.
func (r *pageRenderer) Render(w io.Writer, data pageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute status template: %w", err)
	}

	if err := r.minifier.Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("failed to minify status page: %w", err)
	}
	return nil
}
