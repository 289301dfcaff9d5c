// Package importer reads route stop lists from CSV, Excel and YAML files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Stops    []model.Stop
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A negative index means the column is absent.
type ColumnMapping struct {
	Stop   int
	Order  int
	Owner  int
	Kind   int
	Count  int
	Width  int
	Height int
	Weight int
	Label  int
	Color  int
}

// positionalMapping is used for files without a header row.
var positionalMapping = ColumnMapping{
	Stop: 0, Order: 1, Owner: 2, Kind: 3, Count: 4,
	Width: 5, Height: 6, Weight: 7, Label: 8, Color: 9,
}

// headerAliases lists accepted header names per column role (all lowercase).
var headerAliases = []struct {
	role    string
	aliases []string
}{
	{"stop", []string{"stop", "stop id", "stop_id", "stopid", "id"}},
	{"order", []string{"order", "order index", "seq", "sequence", "position", "pos", "#"}},
	{"owner", []string{"owner", "owner id", "customer", "shipment", "consignment"}},
	{"kind", []string{"kind", "type", "action", "stop type", "operation"}},
	{"count", []string{"count", "qty", "quantity", "pallets", "pcs", "num"}},
	{"width", []string{"width", "w", "pallet length", "length", "len"}},
	{"height", []string{"height", "h", "depth", "d"}},
	{"weight", []string{"weight", "weight kg", "kg", "mass"}},
	{"label", []string{"label", "name", "description", "desc"}},
	{"color", []string{"color", "colour"}},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"stop": &mapping.Stop, "order": &mapping.Order, "owner": &mapping.Owner,
		"kind": &mapping.Kind, "count": &mapping.Count, "width": &mapping.Width,
		"height": &mapping.Height, "weight": &mapping.Weight, "label": &mapping.Label,
		"color": &mapping.Color,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, h := range headerAliases {
			for _, alias := range h.aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[h.role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension parses a centimeter value. Decimal values are rounded.
func parseDimension(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return int(v - 0.5), nil
	}
	return int(v + 0.5), nil
}

// parseRow extracts a Stop from a row using the given column mapping.
// Returns the stop, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, dataIndex int) (model.Stop, string, []string) {
	var warnings []string

	owner := getCell(row, mapping.Owner)
	if owner == "" {
		return model.Stop{}, fmt.Sprintf("%s: Missing owner value", rowLabel), nil
	}

	kindStr := getCell(row, mapping.Kind)
	if kindStr == "" {
		return model.Stop{}, fmt.Sprintf("%s: Missing stop kind", rowLabel), nil
	}
	kind, ok := model.ParseStopKind(kindStr)
	if !ok {
		return model.Stop{}, fmt.Sprintf("%s: Unknown stop kind '%s'", rowLabel, kindStr), nil
	}

	order := dataIndex
	if orderStr := getCell(row, mapping.Order); orderStr != "" {
		v, err := strconv.Atoi(orderStr)
		if err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Invalid order '%s'", rowLabel, orderStr), nil
		}
		order = v
	}

	count := 1
	if countStr := getCell(row, mapping.Count); countStr != "" {
		v, err := strconv.Atoi(countStr)
		if err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Invalid count '%s'", rowLabel, countStr), nil
		}
		if v < 0 {
			return model.Stop{}, fmt.Sprintf("%s: Count must not be negative", rowLabel), nil
		}
		if v == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Stop handles no pallets", rowLabel))
		}
		count = v
	}

	id := getCell(row, mapping.Stop)
	if id == "" {
		id = fmt.Sprintf("S%d", dataIndex+1)
	}

	stop := model.Stop{
		ID:         id,
		OrderIndex: order,
		OwnerID:    owner,
		Kind:       kind,
		Label:      getCell(row, mapping.Label),
		Color:      getCell(row, mapping.Color),
	}

	widthStr, heightStr := getCell(row, mapping.Width), getCell(row, mapping.Height)
	switch {
	case widthStr == "" && heightStr == "":
		stop.Count = count
	case widthStr == "" || heightStr == "":
		return model.Stop{}, fmt.Sprintf("%s: Width and height must be given together", rowLabel), nil
	default:
		width, err := parseDimension(widthStr)
		if err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
		}
		height, err := parseDimension(heightStr)
		if err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
		}
		spec := model.PalletSpec{Width: width, Height: height}
		if err := spec.Validate(); err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), nil
		}
		if weightStr := getCell(row, mapping.Weight); weightStr != "" {
			w, err := strconv.ParseFloat(strings.ReplaceAll(weightStr, ",", "."), 64)
			if err != nil || w < 0 {
				warnings = append(warnings, fmt.Sprintf("%s: Ignoring invalid weight '%s'", rowLabel, weightStr))
			} else {
				spec.WeightKg = w
			}
		}
		for i := 0; i < count; i++ {
			stop.Pallets = append(stop.Pallets, spec)
		}
	}

	return stop, "", warnings
}

// mergeStop folds row into the stop already imported under the same id.
func mergeStop(existing *model.Stop, row model.Stop, rowLabel string) (string, string) {
	if existing.OwnerID != row.OwnerID || existing.Kind != row.Kind {
		return fmt.Sprintf("%s: Stop '%s' already used for %s of '%s'",
			rowLabel, existing.ID, existing.Kind, existing.OwnerID), ""
	}
	var warning string
	if existing.OrderIndex != row.OrderIndex {
		warning = fmt.Sprintf("%s: Stop '%s' has conflicting order %d, keeping %d",
			rowLabel, existing.ID, row.OrderIndex, existing.OrderIndex)
	}

	// Counts stay counts so the planner expands them with its own standard pallet
	existing.Pallets = append(existing.Pallets, row.Pallets...)
	existing.Count += row.Count
	if existing.Label == "" {
		existing.Label = row.Label
	}
	if existing.Color == "" {
		existing.Color = row.Color
	}
	return "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import reads a stop list, choosing the reader from the file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return ImportExcel(path)
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	case ".yaml", ".yml":
		return ImportYAML(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportCSV imports stops from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports stops from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports stops from an Excel workbook.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, parses each row and merges rows that
// share a stop id.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Owner == -1 {
			missing = append(missing, "Owner")
		}
		if mapping.Kind == -1 {
			missing = append(missing, "Kind")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > mapping.Order {
		// An unrecognized header still has a non-numeric order column
		cell := strings.TrimSpace(rows[0][mapping.Order])
		if _, err := strconv.Atoi(cell); cell != "" && err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	byID := make(map[string]int)
	dataIndex := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		stop, errMsg, warnings := parseRow(row, mapping, rowLabel, dataIndex)
		dataIndex++

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if idx, ok := byID[stop.ID]; ok {
			errMsg, warning := mergeStop(&result.Stops[idx], stop, rowLabel)
			if errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
				continue
			}
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}
			continue
		}

		byID[stop.ID] = len(result.Stops)
		result.Stops = append(result.Stops, stop)
	}

	return result
}
