package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each pallet label's QR code.
type LabelInfo struct {
	UnitID    string `json:"unit"`
	OwnerID   string `json:"owner"`
	Label     string `json:"label"`
	Width     int    `json:"width_cm"`
	Height    int    `json:"height_cm"`
	Vehicle   string `json:"vehicle"`
	X         int    `json:"x_cm"`
	Y         int    `json:"y_cm"`
	Rotated   bool   `json:"rotated"`
	Overflow  bool   `json:"overflow"`
	LoadStop  string `json:"load_stop,omitempty"`  // first pickup of the owner
	DropStop  string `json:"drop_stop,omitempty"`  // first delivery of the owner
	LoadOrder int    `json:"load_order,omitempty"` // order index of LoadStop
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cargo unit of
// the sheet. Labels are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, sheet LoadSheet) error {
	labels := CollectLabelInfos(sheet)
	if len(labels) == 0 {
		return fmt.Errorf("no cargo units to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.UnitID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + info.UnitID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Label, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d cm  #%s", info.Width, info.Height, info.UnitID)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	route := fmt.Sprintf("Load %s / Drop %s", orDash(info.LoadStop), orDash(info.DropStop))
	pdf.CellFormat(textW, 3, truncate(pdf, route, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	switch {
	case info.Overflow:
		pdf.SetFont("Helvetica", "B", 6)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(textW, 3, "NOT LOADED", "", 0, "L", false, 0, "")
	case info.Rotated:
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("%s @ (%d, %d) rotated", info.Vehicle, info.X, info.Y), "", 0, "L", false, 0, "")
	default:
		pdf.CellFormat(textW, 3, fmt.Sprintf("%s @ (%d, %d)", info.Vehicle, info.X, info.Y), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// CollectLabelInfos extracts label information for every unit of the sheet,
// in live-set order. Each label names the first pickup and the first
// delivery of the unit's owner.
func CollectLabelInfos(sheet LoadSheet) []LabelInfo {
	type legs struct {
		load, drop string
		loadOrder  int
	}
	route := make(map[string]*legs)
	for _, s := range sheet.Stops {
		l, ok := route[s.OwnerID]
		if !ok {
			l = &legs{}
			route[s.OwnerID] = l
		}
		if s.Kind.Loads() && l.load == "" {
			l.load, l.loadOrder = s.ID, s.OrderIndex
		}
		if !s.Kind.Loads() && l.drop == "" {
			l.drop = s.ID
		}
	}

	labels := make([]LabelInfo, 0, len(sheet.Units))
	for _, u := range sheet.Units {
		info := LabelInfo{
			UnitID:   u.ID,
			OwnerID:  u.OwnerID,
			Label:    u.Label,
			Width:    u.Spec.Width,
			Height:   u.Spec.Height,
			Vehicle:  sheet.Vehicle.Name,
			X:        u.Rect.X,
			Y:        u.Rect.Y,
			Rotated:  u.Rotated,
			Overflow: u.IsOverflow,
		}
		if l, ok := route[u.OwnerID]; ok {
			info.LoadStop, info.DropStop, info.LoadOrder = l.load, l.drop, l.loadOrder
		}
		labels = append(labels, info)
	}
	return labels
}
