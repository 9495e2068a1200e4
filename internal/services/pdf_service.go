package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"submission-service/internal/models"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	pageWidth     = 595.0
	pageMargin    = 50.0
	lineSpacing   = 1.5
	sectionMargin = 12.0
)

var disableConfigOnce sync.Once

// PDFRenderer renders the one-page application summary.
type PDFRenderer struct {
	now func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	disableConfigOnce.Do(api.DisableConfigDir)
	return &PDFRenderer{now: time.Now}
}

func (r *PDFRenderer) Render(form models.FormData, serialNumber string) ([]byte, error) {
	lines := summaryLines(form, serialNumber, r.now())

	layout, err := json.Marshal(buildPageLayout(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to encode pdf layout: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(layout), &buf, nil); err != nil {
		return nil, fmt.Errorf("failed to render application summary: %w", err)
	}

	slog.Debug("PDFRenderer: Application summary rendered", "serial_number", serialNumber, "size", buf.Len())
	return buf.Bytes(), nil
}

// ============================================================================
// CONTENT
// ============================================================================

type summaryLine struct {
	Text       string
	Size       int
	Heading    bool
	Center     bool
	SpaceAfter bool
}

func summaryLines(form models.FormData, serialNumber string, generatedAt time.Time) []summaryLine {
	text := func(s string) summaryLine { return summaryLine{Text: s, Size: 10} }
	heading := func(s string) summaryLine { return summaryLine{Text: s, Size: 14, Heading: true} }
	endSection := func(l summaryLine) summaryLine {
		l.SpaceAfter = true
		return l
	}

	lines := []summaryLine{
		{Text: "Application Summary", Size: 20, Center: true, SpaceAfter: true},
		{Text: "Generated: " + generatedAt.Format("2006-01-02 15:04:05"), Size: 10, Center: true, SpaceAfter: true},

		heading("Client Information"),
		text("Serial Number: " + serialNumber),
		text("Name: " + form.ClientFirstName + " " + form.ClientLastName),
		endSection(text("Email: " + orDefault(form.ClientEmail, "N/A"))),

		heading("Policy Details"),
		text("Policy Type: " + form.PolicyType),
		text("Form Category: " + form.FormType),
		text("Mode of Payment: " + string(form.ModeOfPayment)),
		endSection(text("Policy Date: " + form.PolicyDate)),
	}

	if m := form.Medical; m != nil {
		lines = append(lines,
			heading("Medical & Personal Declaration"),
			text("Height: "+orDefault(string(m.Height), "N/A")),
			text("Weight: "+orDefault(string(m.Weight), "N/A")),
			text("Diagnosed with Critical Illness: "+orDefault(string(m.Diagnosed), "No")),
			text("Hospitalized (Last 2 Years): "+orDefault(string(m.Hospitalized), "No")),
			text("Smoker: "+orDefault(string(m.Smoker), "No")),
			endSection(text("Alcohol Consumer: "+orDefault(string(m.Alcohol), "No"))),
		)
	}

	return append(lines, summaryLine{Text: "--- End of Summary ---", Size: 10, Center: true})
}

// orDefault treats blank and "false" values as absent.
func orDefault(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "false" {
		return fallback
	}
	return v
}

// ============================================================================
// LAYOUT
// ============================================================================

type pageLayout struct {
	Paper  string               `json:"paper"`
	Origin string               `json:"origin"`
	Pages  map[string]pageLayer `json:"pages"`
}

type pageLayer struct {
	Content pageContent `json:"content"`
}

type pageContent struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  textFont   `json:"font"`
	Align string     `json:"align"`
}

type textFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func buildPageLayout(lines []summaryLine) pageLayout {
	boxes := make([]textBox, 0, len(lines))
	y := pageMargin
	for _, l := range lines {
		font := "Helvetica"
		if l.Heading || l.Size >= 20 {
			font = "Helvetica-Bold"
		}
		box := textBox{
			Value: l.Text,
			Pos:   [2]float64{pageMargin, y},
			Font:  textFont{Name: font, Size: l.Size},
			Align: "left",
		}
		if l.Center {
			box.Pos[0] = pageWidth / 2
			box.Align = "center"
		}
		boxes = append(boxes, box)

		y += float64(l.Size) * lineSpacing
		if l.SpaceAfter || l.Heading {
			y += sectionMargin / 2
		}
		if l.SpaceAfter {
			y += sectionMargin / 2
		}
	}

	return pageLayout{
		Paper:  "A4P",
		Origin: "UpperLeft",
		Pages:  map[string]pageLayer{"1": {Content: pageContent{Text: boxes}}},
	}
}
