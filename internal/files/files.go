/*
Copyright 2025 Taqseet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package files turns uploaded spreadsheet files into the column-keyed row
// shape the import pipeline consumes. The first row is treated as the
// header; the column-to-field mapping stays caller-supplied.
package files

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/taqseet/taqseet/model"
)

// ParseImportFile reads an .xlsx or .csv upload into rows keyed by the
// header columns. Returns the rows and the header columns in file order.
func ParseImportFile(reader io.Reader, filename string) ([]model.ImportRow, []string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return parseExcel(reader)
	case ".csv", ".txt":
		return parseCSV(reader)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

func parseExcel(reader io.Reader) ([]model.ImportRow, []string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	return recordsToRows(records)
}

func parseCSV(reader io.Reader) ([]model.ImportRow, []string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading csv: %w", err)
	}

	return recordsToRows(records)
}

func recordsToRows(records [][]string) ([]model.ImportRow, []string, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	var rows []model.ImportRow
	lastNonEmpty := -1
	for _, record := range records[1:] {
		row := make(model.ImportRow, len(header))
		empty := true
		for i, col := range header {
			if col == "" {
				continue
			}
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
			row[col] = cell
		}
		rows = append(rows, row)
		if !empty {
			lastNonEmpty = len(rows) - 1
		}
	}

	// Trailing blank rows are common in exported sheets. Interior blanks
	// are kept so error row numbers still line up with the file.
	return rows[:lastNonEmpty+1], header, nil
}
