package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/domain"
)

const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>YouTube Analytics Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
h1, h2 { color: #333; }
.chart-container { margin-bottom: 40px; }
</style>
<script src="{{.PlotlyCDN}}"></script>
</head>
<body>
<h1>YouTube Analytics Report &mdash; generated {{.GeneratedAt}}</h1>
{{range .Charts}}<div class="chart-container">
<h2>{{.Title}}</h2>
<div id="{{.DivID}}"></div>
<script>
Plotly.newPlot({{.DivID}}, {{.Spec}});
</script>
</div>
{{end}}</body>
</html>
`))

type chartSection struct {
	Title string
	DivID string
	Spec  template.JS
}

type pageData struct {
	PlotlyCDN   string
	GeneratedAt string
	Charts      []chartSection
}

// Generator renders snapshot rows into a standalone HTML report with
// embedded plotly charts.
type Generator struct {
	logger *zap.Logger
}

func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// WriteFile renders the report for rows into path.
func (g *Generator) WriteFile(path string, rows []domain.ChannelReportRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := g.Render(file, rows); err != nil {
		return err
	}

	g.logger.Info("HTML report written",
		zap.String("file", path),
		zap.Int("rows", len(rows)))
	return nil
}

// Render writes the report HTML to w.
func (g *Generator) Render(w io.Writer, rows []domain.ChannelReportRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no snapshot rows to report on")
	}

	totals := sumByChannel(rows)

	charts := []struct {
		title string
		divID string
		fig   figure
	}{
		{"Total accumulated views by channel and video type", "total-views", totalViewsFigure(totals)},
		{"Average views per video by channel and video type", "avg-views", avgViewsFigure(totals)},
		{"Total views by video type over time", "views-over-time", viewsOverTimeFigure(rows)},
		{"Total videos uploaded by channel and video type", "video-counts", videoCountFigure(totals)},
	}

	data := pageData{
		PlotlyCDN:   plotlyCDN,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Charts:      make([]chartSection, 0, len(charts)),
	}

	for _, c := range charts {
		spec, err := json.Marshal(c.fig)
		if err != nil {
			return fmt.Errorf("failed to encode chart %q: %w", c.divID, err)
		}
		data.Charts = append(data.Charts, chartSection{
			Title: c.title,
			DivID: c.divID,
			Spec:  template.JS(spec),
		})
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
