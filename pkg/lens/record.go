package lens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformedRecord is returned when a loaded record is missing a required
// field or carries a value of the wrong type.
var ErrMalformedRecord = errors.New("malformed record")

// Mount names as stored in the data set.
const (
	MountMicroFourThirds = "マイクロフォーサーズ"
	MountLeicaL          = "ライカL"
)

// Record is one lens catalog entry. Distances are stored in millimeters,
// focal lengths are 35mm-equivalent and the price is in yen.
type Record struct {
	ID            int    `json:"id"`
	Maker         string `json:"maker"`
	Name          string `json:"name"`
	ProductNumber string `json:"product_number"`
	Mount         string `json:"mount,omitempty"`
	URL           string `json:"url,omitempty"`

	WideFocalLength               float64 `json:"wide_focal_length"`
	TelephotoFocalLength          float64 `json:"telephoto_focal_length"`
	WideFNumber                   float64 `json:"wide_f_number"`
	TelephotoFNumber              float64 `json:"telephoto_f_number"`
	WideMinFocusDistance          float64 `json:"wide_min_focus_distance"`
	TelephotoMinFocusDistance     float64 `json:"telephoto_min_focus_distance"`
	MaxPhotographingMagnification float64 `json:"max_photographing_magnification"`
	FilterDiameter                float64 `json:"filter_diameter"`

	IsDripProof           bool `json:"is_drip_proof"`
	HasImageStabilization bool `json:"has_image_stabilization"`
	IsInnerZoom           bool `json:"is_inner_zoom"`

	OverallDiameter float64 `json:"overall_diameter"`
	OverallLength   float64 `json:"overall_length"`
	Weight          float64 `json:"weight"`
	Price           float64 `json:"price"`
}

// RequiredFields lists the JSON keys every record must carry. Mount and URL
// were added to the data set later and stay optional.
var RequiredFields = []string{
	"id",
	"maker",
	"name",
	"product_number",
	"wide_focal_length",
	"telephoto_focal_length",
	"wide_f_number",
	"telephoto_f_number",
	"wide_min_focus_distance",
	"telephoto_min_focus_distance",
	"max_photographing_magnification",
	"filter_diameter",
	"is_drip_proof",
	"has_image_stabilization",
	"is_inner_zoom",
	"overall_diameter",
	"overall_length",
	"weight",
	"price",
}

// IsZoom reports whether the lens covers more than one focal length.
func (r Record) IsZoom() bool {
	return r.WideFocalLength != r.TelephotoFocalLength
}

// DecodeResult holds the records that survived decoding and the reasons for
// every record that was dropped in lenient mode.
type DecodeResult struct {
	Records []Record
	Dropped []error
}

// Decode reads a JSON array of records. In strict mode the first malformed
// record aborts the load; otherwise it is dropped and reported in Dropped.
func Decode(r io.Reader, strict bool) (*DecodeResult, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode lens data: %w", err)
	}

	result := &DecodeResult{Records: make([]Record, 0, len(raw))}
	ids := make(idSet, len(raw))
	for i, msg := range raw {
		rec, err := decodeRecord(msg)
		if err == nil {
			err = ids.claim(rec.ID)
		}
		if err != nil {
			err = fmt.Errorf("record %d: %w", i, err)
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

// idSet tracks record ids already taken within one load.
type idSet map[int]struct{}

// claim reserves id. Id 0 means unassigned and may repeat.
func (s idSet) claim(id int) error {
	if id == 0 {
		return nil
	}
	if _, ok := s[id]; ok {
		return fmt.Errorf("%w: duplicate id %d", ErrMalformedRecord, id)
	}
	s[id] = struct{}{}
	return nil
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string, strict bool) (*DecodeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lens data %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f, strict)
}

func decodeRecord(msg json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	for _, key := range RequiredFields {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return Record{}, fmt.Errorf("%w: missing field '%s'", ErrMalformedRecord, key)
		}
	}

	var rec Record
	if err := json.Unmarshal(msg, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return rec, nil
}

// Encode writes records as an indented JSON array, the format served as the
// static data file.
func Encode(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
