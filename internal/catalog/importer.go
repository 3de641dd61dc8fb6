// Item list import from CSV and Excel files. Supports automatic delimiter
// detection, flexible column mapping, and case-insensitive header
// recognition. Containers come from the JSON input or CLI; these formats
// carry items only.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/shapepack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Any entry in
// Errors makes the import fatal for the run; Warnings are advisory.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID     int
	Type   int
	Width  int
	Height int
	Shape  int
	Price  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "item id", "item_id", "#"},
	"type":   {"type", "label", "name", "item", "description", "desc"},
	"width":  {"width", "w", "x"},
	"height": {"height", "h", "y"},
	"shape":  {"shape", "kind", "geometry", "form"},
	"price":  {"price", "value", "cost", "unit price", "unit_price"},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter
// that produces the most consistent column count across lines wins.
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

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected, or
// a default positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Type: -1, Width: -1, Height: -1, Shape: -1, Price: -1}

	assign := func(role string, idx int) {
		switch role {
		case "id":
			if mapping.ID == -1 {
				mapping.ID = idx
			}
		case "type":
			if mapping.Type == -1 {
				mapping.Type = idx
			}
		case "width":
			if mapping.Width == -1 {
				mapping.Width = idx
			}
		case "height":
			if mapping.Height == -1 {
				mapping.Height = idx
			}
		case "shape":
			if mapping.Shape == -1 {
				mapping.Shape = idx
			}
		case "price":
			if mapping.Price == -1 {
				mapping.Price = idx
			}
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					assign(role, i)
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: ID, Type, Width, Height, Shape, Price
		return ColumnMapping{ID: 0, Type: 1, Width: 2, Height: 3, Shape: 4, Price: 5}, false
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

// parseRow extracts an Item from a row using the given column mapping.
// Returns the item, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.Item, string, string) {
	var warning string

	id := itemCount
	if idStr := getCell(row, mapping.ID); idStr != "" {
		parsed, err := strconv.Atoi(idStr)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid id '%s'", rowLabel, idStr), ""
		}
		id = parsed
	}

	label := getCell(row, mapping.Type)
	if label == "" {
		label = fmt.Sprintf("Item %d", id)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Item{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Item{}, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), ""
	}

	if width <= 0 || height <= 0 {
		return model.Item{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}

	shape := model.Rectangle
	if shapeStr := getCell(row, mapping.Shape); shapeStr != "" {
		parsed, err := model.ParseShapeKind(shapeStr)
		if err != nil {
			// Unknown shape tags are fatal at load time, not a default.
			return model.Item{}, fmt.Sprintf("%s: %v", rowLabel, err), ""
		}
		shape = parsed
	} else {
		warning = fmt.Sprintf("%s: No shape given, assuming RECTANGLE", rowLabel)
	}

	price := 0.0
	if priceStr := getCell(row, mapping.Price); priceStr != "" {
		price, err = strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr), ""
		}
		if price < 0 {
			return model.Item{}, fmt.Sprintf("%s: Price must not be negative", rowLabel), ""
		}
	}

	item := model.Item{
		ID:    id,
		Type:  label,
		Dims:  model.Dimensions{Width: width, Height: height, Shape: shape},
		Price: price,
	}
	return item, "", warning
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

// ImportCSV imports items from a CSV file. It automatically detects the
// delimiter and maps columns by header names. Supports comma, semicolon,
// tab, and pipe delimiters.
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a specific
// delimiter. Useful for testing or when the delimiter is already known.
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

// ImportExcel imports items from an Excel (.xlsx) file. Reads the first
// sheet and auto-detects column mapping from headers.
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
// It detects headers, maps columns, and parses each row into items.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

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
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// No recognized header: if the width column of the first row is not
		// numeric, treat it as an unknown header and keep positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][2]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Items))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Items = append(result.Items, item)
	}

	return result
}
