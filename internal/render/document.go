package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/i474232898/weather-mailer/internal/weather"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// The HTML template is executed with text/template so that Escape is the one
// and only escaping pass; every dynamic value goes through the esc function.
var (
	funcMap  = template.FuncMap{"esc": Escape}
	htmlTmpl = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/notification.html.tmpl"))
	textTmpl = template.Must(template.New("").ParseFS(templateFS, "templates/notification.txt.tmpl"))
)

// Document is one recipient's rendered notification.
type Document struct {
	Subject    string
	HTML       string
	Text       string
	Badge      Badge
	BadgeLabel string
}

// Renderer turns normalized weather data into a Document.
type Renderer struct {
	locale Locale
	footer string
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithFooter overrides the locale's footer line.
func WithFooter(footer string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(footer) != "" {
			r.footer = footer
		}
	}
}

// NewRenderer creates a Renderer for the given locale.
func NewRenderer(locale Locale, opts ...Option) *Renderer {
	r := &Renderer{locale: locale, footer: locale.Footer}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locale returns the renderer's locale.
func (r *Renderer) Locale() Locale {
	return r.locale
}

type gridView struct {
	Dir  string
	Rows []MetricRow
}

type documentView struct {
	Lang string
	Dir  string

	Title        string
	DateLine     string
	UpdatedLabel string
	Updated      string
	Badge        string

	NowHeading string
	NowItems   []MetricItem
	NowGrid    gridView

	RainChanceLabel string
	RainChance      string

	ForecastHeading string
	Description     string
	ForecastItems   []MetricItem
	ForecastGrid    gridView

	Footer string
}

// Render builds the notification for cityName from the merged current
// conditions and the forecast payload. The forecast description is passed
// through verbatim apart from HTML escaping.
func (r *Renderer) Render(cityName string, now weather.CurrentConditions, fc weather.ForecastInfo) (Document, error) {
	l := r.locale

	desc := fc.Text("lang1")
	if desc == "" {
		desc = fc.Text("lang0")
	}
	if desc == "" {
		desc = Placeholder
	}

	dateLine := strings.TrimSpace(fc.Text("day_name") + " " + fc.Text("date"))

	tempNow := Number(now.Value("temp"), 1)
	humNow := Number(now.Value("hum"), 0)
	pressure := Number(now.Value("pressure"), 1)
	windDir := textOr(now.Value("winddir"), Placeholder)
	windSpd := Number(now.Value("windspd"), 0)
	rainToday := Number(now.Value("rain"), 1)
	rainChance := Number(now.Value("rainchance"), 0)
	sunshine := Number(now.Value("sunshinehours"), 1)

	low := Number(fc.Value("TempLow"), 0)
	high := Number(fc.Value("TempHigh"), 0)
	night := Number(fc.Value("TempNight"), 0)
	humDay := Number(fc.Value("humDay"), 0)

	badge := Classify(desc, tempNow)

	nowItems := []MetricItem{
		{Icon: "🌡️", Label: l.Temperature, Value: tempNow + "°C"},
		{Icon: "💧", Label: l.Humidity, Value: humNow + "%"},
		{Icon: "🧭", Label: l.Wind, Value: windDir + " · " + windSpd + " " + l.SpeedUnit},
		{Icon: "🧱", Label: l.Pressure, Value: pressure + " hPa"},
		{Icon: "🌧️", Label: l.RainToday, Value: rainToday + " " + l.RainUnit},
		{Icon: "☀️", Label: l.Sunshine, Value: sunshine},
	}
	forecastItems := []MetricItem{
		{Icon: "⬇️", Label: l.Low, Value: low + "°C"},
		{Icon: "⬆️", Label: l.High, Value: high + "°C"},
		{Icon: "🌙", Label: l.Night, Value: night + "°C"},
		{Icon: "💦", Label: l.HumDay, Value: humDay + "%"},
	}

	view := documentView{
		Lang:            l.Code,
		Dir:             l.Dir,
		Title:           l.Title + " — " + cityName,
		DateLine:        dateLine,
		UpdatedLabel:    l.Updated,
		Updated:         textOr(now.Value("time"), ""),
		Badge:           l.Label(badge),
		NowHeading:      l.Now,
		NowItems:        nowItems,
		NowGrid:         gridView{Dir: l.Dir, Rows: Layout(nowItems).Rows},
		RainChanceLabel: l.RainChance,
		RainChance:      rainChance,
		ForecastHeading: l.Forecast,
		Description:     desc,
		ForecastItems:   forecastItems,
		ForecastGrid:    gridView{Dir: l.Dir, Rows: Layout(forecastItems).Rows},
		Footer:          r.footer,
	}

	var htmlBuf bytes.Buffer
	if err := htmlTmpl.ExecuteTemplate(&htmlBuf, "notification.html.tmpl", view); err != nil {
		return Document{}, fmt.Errorf("render html: %w", err)
	}

	var textBuf bytes.Buffer
	if err := textTmpl.ExecuteTemplate(&textBuf, "notification.txt.tmpl", view); err != nil {
		return Document{}, fmt.Errorf("render text: %w", err)
	}

	return Document{
		Subject:    r.Subject(cityName),
		HTML:       htmlBuf.String(),
		Text:       textBuf.String(),
		Badge:      badge,
		BadgeLabel: view.Badge,
	}, nil
}

// Subject returns the email subject for cityName.
func (r *Renderer) Subject(cityName string) string {
	return sanitizeSubject(r.locale.Subject + " — " + cityName)
}

// sanitizeSubject strips CR/LF to prevent email header injection.
func sanitizeSubject(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
