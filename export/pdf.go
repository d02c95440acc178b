package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"terravista/api/geoserver"
	"terravista/api/models"
	"terravista/api/utils"
)

const (
	maxLegendLayers    = 8
	maxLayerNameLength = 20
	maxAddressLength   = 80
)

// Exporter assembles the paginated PDF document for a map export.
type Exporter struct {
	composer    *Composer
	gs          *geoserver.Client
	orgName     string
	orgSubtitle string
	logoPath    string
}

func NewExporter(gs *geoserver.Client) *Exporter {
	orgName := os.Getenv("EXPORT_ORG_NAME")
	if orgName == "" {
		orgName = "TerraVista GIS Portal"
	}
	orgSubtitle := os.Getenv("EXPORT_ORG_SUBTITLE")
	if orgSubtitle == "" {
		orgSubtitle = "Map Export Report"
	}

	return &Exporter{
		composer:    NewComposer(gs),
		gs:          gs,
		orgName:     orgName,
		orgSubtitle: orgSubtitle,
		logoPath:    os.Getenv("EXPORT_LOGO_PATH"),
	}
}

// ExportPDF composes the map image and assembles the export document.
// Individual stages degrade to placeholders; only document assembly itself
// is fatal.
func (e *Exporter) ExportPDF(ctx context.Context, req *models.ExportRequest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Map Export", false)
	pdf.AddPage()

	e.writeHeader(pdf)
	e.writeMapImage(ctx, pdf, req)
	e.writeInfoTable(pdf, req)
	if len(req.ActiveLayers) > 0 {
		e.writeLegend(ctx, pdf, req.ActiveLayers)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to assemble export document: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeHeader(pdf *gofpdf.Fpdf) {
	if e.logoPath != "" {
		if _, err := os.Stat(e.logoPath); err == nil {
			pdf.ImageOptions(e.logoPath, 12, 10, 18, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, e.orgName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, e.orgSubtitle, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

// writeMapImage composes the map, embeds it via a temporary PNG file, and
// removes the file afterwards. On failure a placeholder line is written
// instead.
func (e *Exporter) writeMapImage(ctx context.Context, pdf *gofpdf.Fpdf, req *models.ExportRequest) {
	img := e.composer.ComposeMapImage(ctx, req)

	tmp, err := os.CreateTemp("", "terravista-map-*.png")
	if err != nil {
		e.writeMapPlaceholder(pdf)
		return
	}
	defer os.Remove(tmp.Name())

	encodeErr := png.Encode(tmp, img)
	tmp.Close()
	if encodeErr != nil {
		e.writeMapPlaceholder(pdf)
		return
	}

	pdf.ImageOptions(tmp.Name(), 15, pdf.GetY(), 180, 120, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)
}

func (e *Exporter) writeMapPlaceholder(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(0, 10, "Map image could not be generated", "1", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (e *Exporter) writeInfoTable(pdf *gofpdf.Fpdf, req *models.ExportRequest) {
	address := utils.Truncate(req.Address, maxAddressLength)
	if address == "" {
		address = "-"
	}

	date := req.Timestamp
	if date == "" {
		date = time.Now().Format("2006-01-02 15:04")
	}

	scale := req.Scale
	if scale == "" {
		scale = "-"
	}

	rows := [][2]string{
		{"Scale", scale},
		{"Coordinates", fmt.Sprintf("%.5f, %.5f", req.Center.Lat, req.Center.Lon)},
		{"Address", address},
		{"Date", date},
		{"North", "Up"},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(135, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// writeLegend lists up to 8 active layers with a best-effort style swatch
// for vector layers.
func (e *Exporter) writeLegend(ctx context.Context, pdf *gofpdf.Fpdf, layers []models.ActiveLayer) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Legend", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(225, 225, 225)
	pdf.CellFormat(70, 7, "Layer", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Opacity", "1", 0, "L", true, 0, "")
	pdf.CellFormat(55, 7, "Style", "1", 1, "L", true, 0, "")

	if len(layers) > maxLegendLayers {
		layers = layers[:maxLegendLayers]
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, layer := range layers {
		layerType := layer.Type
		if layerType == "" {
			layerType = "unknown"
		}

		opacity := layer.Opacity
		if opacity <= 0 || opacity > 1 {
			opacity = 1
		}

		pdf.CellFormat(70, 7, utils.Truncate(layer.Name, maxLayerNameLength), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, layerType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d%%", int(opacity*100)), "1", 0, "L", false, 0, "")

		e.writeStyleCell(ctx, pdf, layer, layerType)
	}
}

// writeStyleCell draws a color swatch for vector layers with a declared
// style color, and a textual placeholder otherwise.
func (e *Exporter) writeStyleCell(ctx context.Context, pdf *gofpdf.Fpdf, layer models.ActiveLayer, layerType string) {
	if layerType != "vector" {
		pdf.CellFormat(55, 7, "N/A", "1", 1, "L", false, 0, "")
		return
	}

	color, err := e.gs.LayerStyleColor(ctx, layer.Workspace, layer.Name)
	if err != nil {
		e.composer.logf("Failed to resolve style color for %s:%s: %v", layer.Workspace, layer.Name, err)
		pdf.CellFormat(55, 7, "Unknown", "1", 1, "L", false, 0, "")
		return
	}
	if color == "" {
		pdf.CellFormat(55, 7, "Default", "1", 1, "L", false, 0, "")
		return
	}

	r, g, b, ok := parseHexColor(color)
	if !ok {
		pdf.CellFormat(55, 7, "Default", "1", 1, "L", false, 0, "")
		return
	}

	pdf.SetFillColor(r, g, b)
	pdf.CellFormat(55, 7, "", "1", 1, "L", true, 0, "")
}

func parseHexColor(s string) (r, g, b int, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
