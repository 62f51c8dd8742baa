package lens

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a CSV export whose header row uses the JSON field names.
// Columns are matched by header, so their order is free and unknown columns
// are skipped. The id column is optional; rows without one get id 0 and are
// numbered by the store on import.
func ReadCSV(r io.Reader, strict bool) (*DecodeResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, key := range RequiredFields {
		if key == "id" {
			continue
		}
		if _, ok := columns[key]; !ok {
			return nil, fmt.Errorf("%w: CSV header is missing column '%s'", ErrMalformedRecord, key)
		}
	}

	return readRows(reader, strict, func(row []string) (Record, error) {
		return parseRow(row, columns)
	})
}

// readRows parses every remaining row. Malformed rows and rows repeating an
// id abort in strict mode and are collected in Dropped otherwise.
func readRows(reader *csv.Reader, strict bool, parse func([]string) (Record, error)) (*DecodeResult, error) {
	result := &DecodeResult{}
	ids := idSet{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parse(row)
		if err == nil {
			err = ids.claim(rec.ID)
		}
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
			if strict {
				return nil, err
			}
			result.Dropped = append(result.Dropped, err)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

type rowParser struct {
	row     []string
	columns map[string]int
	err     error
}

func (p *rowParser) text(key string) string {
	i, ok := p.columns[key]
	if !ok || i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) number(key string) float64 {
	if p.err != nil {
		return 0
	}
	value := p.text(key)
	if value == "" {
		p.err = fmt.Errorf("%w: missing field '%s'", ErrMalformedRecord, key)
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.err = fmt.Errorf("%w: field '%s': %v", ErrMalformedRecord, key, err)
		return 0
	}
	return f
}

func (p *rowParser) flag(key string) bool {
	if p.err != nil {
		return false
	}
	value := p.text(key)
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.err = fmt.Errorf("%w: field '%s': %q is not a boolean", ErrMalformedRecord, key, value)
		return false
	}
	return b
}

func parseRow(row []string, columns map[string]int) (Record, error) {
	p := &rowParser{row: row, columns: columns}

	rec := Record{
		Maker:         p.text("maker"),
		Name:          p.text("name"),
		ProductNumber: p.text("product_number"),
		Mount:         p.text("mount"),
		URL:           p.text("url"),

		WideFocalLength:               p.number("wide_focal_length"),
		TelephotoFocalLength:          p.number("telephoto_focal_length"),
		WideFNumber:                   p.number("wide_f_number"),
		TelephotoFNumber:              p.number("telephoto_f_number"),
		WideMinFocusDistance:          p.number("wide_min_focus_distance"),
		TelephotoMinFocusDistance:     p.number("telephoto_min_focus_distance"),
		MaxPhotographingMagnification: p.number("max_photographing_magnification"),
		FilterDiameter:                p.number("filter_diameter"),

		IsDripProof:           p.flag("is_drip_proof"),
		HasImageStabilization: p.flag("has_image_stabilization"),
		IsInnerZoom:           p.flag("is_inner_zoom"),

		OverallDiameter: p.number("overall_diameter"),
		OverallLength:   p.number("overall_length"),
		Weight:          p.number("weight"),
		Price:           p.number("price"),
	}
	if p.err != nil {
		return Record{}, p.err
	}

	if id := p.text("id"); id != "" {
		n, err := strconv.Atoi(id)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field 'id': %v", ErrMalformedRecord, err)
		}
		rec.ID = n
	}

	if rec.Maker == "" || rec.Name == "" {
		return Record{}, fmt.Errorf("%w: maker and name must not be empty", ErrMalformedRecord)
	}

	return rec, nil
}
