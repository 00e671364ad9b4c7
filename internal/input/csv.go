package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gantt2img/pkg/model"
)

// CSV columns, matched case-insensitively. Only start is required.
const (
	colID        = "id"
	colName      = "name"
	colType      = "type"
	colStart     = "start"
	colEnd       = "end"
	colColor     = "color"
	colLabel     = "label"
	colDependsOn = "depends_on"
	colChildren  = "children"
	colLoop      = "loop"
)

// readCSV reads one element per row, in file order. Rows without an id get
// their 1-based row number. depends_on lists predecessor ids, each optionally
// suffixed with ":SS", ":FF" or ":SF".
func readCSV(r io.Reader, loc *time.Location) (Chart, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Chart{}, fmt.Errorf("error reading CSV header: %w", err)
	}

	columns := make(map[string]int)
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := columns[colStart]; !ok {
		return Chart{}, fmt.Errorf("start column not found in CSV. Available columns: %v", header)
	}

	var chart Chart
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Chart{}, fmt.Errorf("error reading CSV: %w", err)
		}

		cell := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		e, err := csvElement(cell, loc)
		if err != nil {
			return Chart{}, fmt.Errorf("error parsing CSV line %d: %w", line, err)
		}
		if e.ID == "" {
			e.ID = strconv.Itoa(line - 1)
		}
		chart.Elements = append(chart.Elements, e)

		for _, dep := range splitList(cell(colDependsOn)) {
			chart.Dependencies = append(chart.Dependencies, parseLink(dep, e.ID))
		}
	}
	return chart, nil
}

func csvElement(cell func(string) string, loc *time.Location) (model.Element, error) {
	e := model.Element{
		ID:        cell(colID),
		Name:      cell(colName),
		Kind:      model.ParseKind(strings.ToLower(cell(colType))),
		Color:     cell(colColor),
		TypeLabel: cell(colLabel),
		Children:  splitList(cell(colChildren)),
	}

	var err error
	if e.Start, err = ParseTimestamp(cell(colStart), loc); err != nil {
		return model.Element{}, err
	}
	end := cell(colEnd)
	if e.End, err = ParseTimestamp(end, loc); err != nil {
		return model.Element{}, err
	}
	e.HasEnd = end != ""
	if e.Kind == model.KindTask && !e.HasEnd {
		// a task without an end is drawn as a zero-length bar
		e.End = e.Start
	}

	switch strings.ToLower(cell(colLoop)) {
	case "loop", "true", "yes":
		e.IsLoop = true
	case "cut", "cutoff":
		e.IsLoop, e.IsLoopCut = true, true
	}
	return e, nil
}
