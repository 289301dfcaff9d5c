package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportLoadSheet generates a PDF load sheet. Each stop of the route is
// rendered on its own page showing the units aboard after the stop,
// followed by a summary page. A plan without a route gets a single page
// with the whole live set.
func ExportLoadSheet(path string, sheet LoadSheet) error {
	if len(sheet.Units) == 0 {
		return fmt.Errorf("no cargo units to export")
	}
	if sheet.Vehicle.Bed.Length <= 0 || sheet.Vehicle.Bed.Width <= 0 {
		return fmt.Errorf("vehicle %q: %w", sheet.Vehicle.Name, model.ErrInvalidGeometry)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(fmt.Sprintf("Load sheet %s", sheet.Vehicle.Name), false)

	if len(sheet.Timeline) == 0 {
		pdf.AddPage()
		renderBedPage(pdf, sheet, "Full load", sheet.Units)
	}
	for i, snap := range sheet.Timeline {
		pdf.AddPage()
		title := fmt.Sprintf("Stop %d: %s (%s, order %d)", i+1, stopTitle(snap.Stop), snap.Stop.Kind, snap.Stop.OrderIndex)
		renderBedPage(pdf, sheet, title, snap.Units)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sheet)

	return pdf.OutputFileAndClose(path)
}

// renderBedPage draws the truck bed with the given units on the current page.
func renderBedPage(pdf *fpdf.Fpdf, sheet LoadSheet, title string, units []model.CargoUnit) {
	bed := sheet.Vehicle.Bed
	metrics := engine.Analyze(units, bed, sheet.Settings)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%s %dx%d cm | Aboard: %d | Slots: %d/%d | Overflow: %d | Near free: %d cm | Far free: %d cm | Used: %.1f%%",
		sheet.Vehicle.Name, bed.Length, bed.Width, len(units), metrics.UsedSlots, metrics.CapacitySlots,
		metrics.OverflowCount, metrics.NearFreeLength, metrics.FarFreeLength, metrics.Utilization)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(bed.Length), drawHeight/float64(bed.Width))
	canvasW := float64(bed.Length) * scale
	canvasH := float64(bed.Width) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Cargo floor
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawZones(pdf, bed, sheet.Settings, scale, offsetX, offsetY)

	for i, u := range units {
		if u.IsOverflow {
			continue
		}
		col := unitColor(u, i)
		pw := float64(u.Rect.W) * scale
		ph := float64(u.Rect.H) * scale
		px := offsetX + float64(u.Rect.X)*scale
		py := offsetY + float64(u.Rect.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		if u.HasConflict {
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.8)
		} else {
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
		}
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := u.Label
			dims := fmt.Sprintf("%dx%d", u.Rect.W, u.Rect.H)
			if u.Rotated {
				dims += " R"
			}

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, bed, offsetX, offsetY, canvasW, canvasH)
	drawOwnerLegend(pdf, units, offsetY+canvasH+7)
}

// drawZones marks the near and far wall zones with dashed lines.
func drawZones(pdf *fpdf.Fpdf, bed model.TruckBed, settings model.PlanSettings, scale, offsetX, offsetY float64) {
	depth := math.Round(float64(bed.Width) * settings.Normalized().ZoneFraction)
	if depth <= 0 {
		return
	}
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{2, 2}, 0)
	x2 := offsetX + float64(bed.Length)*scale
	nearY := offsetY + depth*scale
	farY := offsetY + (float64(bed.Width)-depth)*scale
	pdf.Line(offsetX, nearY, x2, nearY)
	pdf.Line(offsetX, farY, x2, farY)
	pdf.SetDashPattern([]float64{}, 0)
}

// drawDimensionAnnotations adds length and width labels outside the bed rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, bed model.TruckBed, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Length below the bed, front of the vehicle on the left
	lengthLabel := fmt.Sprintf("front  <  %d cm  >  rear", bed.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%d cm", bed.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawOwnerLegend renders one swatch per owner present in units.
func drawOwnerLegend(pdf *fpdf.Fpdf, units []model.CargoUnit, startY float64) {
	if len(units) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Aboard:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	type entry struct {
		label    string
		color    rgb
		count    int
		overflow int
	}
	var order []string
	entries := make(map[string]*entry)
	for i, u := range units {
		e, ok := entries[u.OwnerID]
		if !ok {
			e = &entry{label: u.Label, color: unitColor(u, i)}
			entries[u.OwnerID] = e
			order = append(order, u.OwnerID)
		}
		e.count++
		if u.IsOverflow {
			e.overflow++
		}
	}

	for _, owner := range order {
		e := entries[owner]
		label := fmt.Sprintf("%s x%d", e.label, e.count)
		if e.overflow > 0 {
			label += fmt.Sprintf(" (%d not loaded)", e.overflow)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(e.color.R, e.color.G, e.color.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with route and space statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, sheet LoadSheet) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	m := sheet.Metrics

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Vehicle", fmt.Sprintf("%s (%d x %d cm)", sheet.Vehicle.Name, sheet.Vehicle.Bed.Length, sheet.Vehicle.Bed.Width)},
		{"Pallets Placed", fmt.Sprintf("%d of %d slots", m.UsedSlots, m.CapacitySlots)},
		{"Floor Utilization", fmt.Sprintf("%.1f%%", m.Utilization)},
		{"Overflow", fmt.Sprintf("%d", m.OverflowCount)},
		{"Conflicts", fmt.Sprintf("%d", m.ConflictCount)},
		{"Total Weight", fmt.Sprintf("%.0f kg", m.TotalWeightKg)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if sheet.Vehicle.MaxPayloadKg > 0 && m.TotalWeightKg > sheet.Vehicle.MaxPayloadKg {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(200, 6, fmt.Sprintf("Payload %.0f kg exceeds vehicle limit %.0f kg", m.TotalWeightKg, sheet.Vehicle.MaxPayloadKg), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 7
	}

	y += 5

	if len(sheet.Timeline) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Route", "", 0, "L", false, 0, "")
		y += 9

		colWidths := []float64{15, 30, 60, 35, 35, 30, 30}
		headers := []string{"Order", "Stop", "Owner", "Kind", "Pallets", "Aboard", "Overflow"}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6

		pdf.SetFont("Helvetica", "", 9)
		for i, snap := range sheet.Timeline {
			if y > pageHeight-marginBottom-10 {
				pdf.AddPage()
				y = marginTop
			}
			overflow := 0
			for _, u := range snap.Units {
				if u.IsOverflow {
					overflow++
				}
			}
			rowData := []string{
				fmt.Sprintf("%d", snap.Stop.OrderIndex),
				snap.Stop.ID,
				stopTitle(snap.Stop),
				snap.Stop.Kind.String(),
				fmt.Sprintf("%d", snap.Stop.PalletCount()),
				fmt.Sprintf("%d", len(snap.Units)),
				fmt.Sprintf("%d", overflow),
			}

			if i%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}

			xPos = marginLeft
			for j, cell := range rowData {
				pdf.SetXY(xPos, y)
				pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
				xPos += colWidths[j]
			}
			y += 6
		}
	}

	var overflow []model.CargoUnit
	for _, u := range sheet.Units {
		if u.IsOverflow {
			overflow = append(overflow, u)
		}
	}
	if len(overflow) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Pallets Not Loaded", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, u := range overflow {
			if y > pageHeight-marginBottom-5 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s [%s]: %d x %d cm", u.Label, u.ID, u.Spec.Width, u.Spec.Height)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by LoadPlan | grid %d cm | standard pallet %dx%d cm",
		sheet.Settings.Normalized().GridStep, sheet.Settings.Normalized().StandardPallet.Width, sheet.Settings.Normalized().StandardPallet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
