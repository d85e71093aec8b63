// Package dashboard renders the stored observations into static HTML pages:
// one page per recorded report month plus index.html showing the latest
// value for every fund. Pages are self-contained apart from the Plotly CDN
// script, so the output directory can be served or opened directly.
package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/service"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("dashboard").Parse(pageSource))

// indexFileName is the page carrying the latest observation per fund.
const indexFileName = "index.html"

// fallbackColor is the badge color for providers missing from the map.
const fallbackColor = "#999999"

// DefaultColors returns the standard provider color scheme. Each call
// returns a fresh map, so a Generator never shares state with another.
func DefaultColors() map[model.Provider]string {
	return map[model.Provider]string{
		model.ProviderCarmignac:  "#FF6B6B",
		model.ProviderSycomore:   "#4ECDC4",
		model.ProviderRothschild: "#45B7D1",
	}
}

// Generator writes the static dashboard pages from stored observations.
type Generator struct {
	observations *service.ObservationService
	outputDir    string
	colors       map[model.Provider]string
	log          *logrus.Logger
}

// NewGenerator creates a new Generator with the provided dependencies.
// A nil colors map falls back to DefaultColors.
func NewGenerator(observations *service.ObservationService, outputDir string, colors map[model.Provider]string, log *logrus.Logger) *Generator {
	if colors == nil {
		colors = DefaultColors()
	}
	return &Generator{
		observations: observations,
		outputDir:    outputDir,
		colors:       colors,
		log:          log,
	}
}

// GenerateAll renders one page per recorded report month plus index.html,
// and returns the file names written, relative to the output directory.
// Months are rendered newest first; the index always reflects the most
// recent observation of every fund.
func (g *Generator) GenerateAll() ([]string, error) {
	periods, err := g.observations.GetPeriods()
	if err != nil {
		return nil, fmt.Errorf("listing report periods: %w", err)
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("no observations recorded yet")
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	g.log.WithFields(logrus.Fields{
		"months": len(periods),
		"dir":    g.outputDir,
	}).Info("Generating dashboard pages")

	written := make([]string, 0, len(periods)+1)
	for _, p := range periods {
		observations, err := g.observations.GetByPeriod(p)
		if err != nil {
			return written, fmt.Errorf("loading observations for %s: %w", p, err)
		}
		name := monthFileName(p)
		if err := g.renderPage(name, observations, p, periods); err != nil {
			return written, err
		}
		written = append(written, name)
	}

	latest, err := g.observations.GetLatest()
	if err != nil {
		return written, fmt.Errorf("loading latest observations: %w", err)
	}
	if err := g.renderPage(indexFileName, latest, period.Month{}, periods); err != nil {
		return written, err
	}
	written = append(written, indexFileName)

	g.log.WithField("files", len(written)).Info("Dashboard generation finished")
	return written, nil
}

// renderPage renders one page to a buffer first, so a template failure
// never leaves a truncated file behind. A zero current month means the
// page is the latest-values index.
func (g *Generator) renderPage(name string, observations []model.Observation, current period.Month, all []period.Month) error {
	data := g.buildPage(observations, current, all)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(g.outputDir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	g.log.WithFields(logrus.Fields{
		"file":  name,
		"bytes": buf.Len(),
	}).Info("Dashboard page written")
	return nil
}

func (g *Generator) buildPage(observations []model.Observation, current period.Month, all []period.Month) pageData {
	caser := cases.Title(language.English)

	rows := make([]tableRow, 0, len(observations))
	chart := chartData{
		X:         make([]int, 0, len(observations)),
		Y:         make([]float64, 0, len(observations)),
		Text:      make([]string, 0, len(observations)),
		Colors:    make([]string, 0, len(observations)),
		Providers: make([]string, 0, len(observations)),
		Isins:     make([]string, 0, len(observations)),
	}
	for _, obs := range observations {
		color := g.colorFor(obs.Provider)
		rows = append(rows, tableRow{
			FundName:   obs.FundName,
			Provider:   caser.String(string(obs.Provider)),
			Color:      color,
			Maturity:   obs.MaturityYear,
			YTM:        fmt.Sprintf("%.2f%%", obs.YTMPercent),
			Isin:       obs.Isin,
			ReportDate: obs.ReportPeriod.Date().Format("January 2006"),
		})
		chart.X = append(chart.X, obs.MaturityYear)
		chart.Y = append(chart.Y, obs.YTMPercent)
		chart.Text = append(chart.Text, obs.FundName)
		chart.Colors = append(chart.Colors, color)
		chart.Providers = append(chart.Providers, string(obs.Provider))
		chart.Isins = append(chart.Isins, obs.Isin)
	}

	titleSuffix := " - Latest"
	if !current.IsZero() {
		titleSuffix = " - " + current.Date().Format("January 2006")
	}

	return pageData{
		TitleSuffix: titleSuffix,
		LastUpdated: time.Now().Format("January 2, 2006 at 3:04 PM"),
		FundCount:   len(observations),
		Nav:         buildNav(all, current),
		Rows:        rows,
		Chart:       chart,
	}
}

func (g *Generator) colorFor(p model.Provider) string {
	if c, ok := g.colors[p]; ok {
		return c
	}
	return fallbackColor
}

// buildNav lists every recorded month in chronological order, marking the
// page currently rendered. A single recorded month has nothing to navigate
// between, so the section is omitted entirely.
func buildNav(all []period.Month, current period.Month) []navLink {
	if len(all) <= 1 {
		return nil
	}

	months := make([]period.Month, len(all))
	copy(months, all)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	links := make([]navLink, 0, len(months))
	for _, p := range months {
		links = append(links, navLink{
			Href:   monthFileName(p),
			Label:  p.Date().Format("January 2006"),
			Active: p == current,
		})
	}
	return links
}

// monthFileName returns the page name for a report month, e.g.
// "october_2025.html".
func monthFileName(p period.Month) string {
	return strings.ToLower(p.Date().Format("January_2006")) + ".html"
}

// pageData is the template context for one rendered page.
type pageData struct {
	TitleSuffix string
	LastUpdated string
	FundCount   int
	Nav         []navLink
	Rows        []tableRow
	Chart       chartData
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

type tableRow struct {
	FundName   string
	Provider   string
	Color      string
	Maturity   int
	YTM        string
	Isin       string
	ReportDate string
}

// chartData is embedded into the page as the JSON the scatter plot script
// reads. Field order and names match what the script expects.
type chartData struct {
	X         []int     `json:"x"`
	Y         []float64 `json:"y"`
	Text      []string  `json:"text"`
	Colors    []string  `json:"colors"`
	Providers []string  `json:"providers"`
	Isins     []string  `json:"isins"`
}
