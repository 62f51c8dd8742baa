package lens

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SpecSheet is one lens as its maker publishes it: free-form text keyed by
// column title. Titles are matched against specColumns, so tables copied from
// different maker sites import without renaming their columns.
type SpecSheet map[string]string

// specColumns maps each normalized key to the titles makers use for it, in
// order of preference.
var specColumns = map[string][]string{
	"id":                       {"id"},
	"maker":                    {"maker", "メーカー"},
	"name":                     {"name", "レンズ名", "製品名"},
	"product_number":           {"product_number", "品番", "Order number", "Order-number"},
	"mount":                    {"mount", "マウント", "対応マウント", "マウント規格"},
	"url":                      {"url"},
	"focal_length":             {"focal_length", "焦点距離"},
	"equivalent_focal_length":  {"equivalent_focal_length", "35mm判換算焦点距離", "焦点距離（35mm判換算）"},
	"f_number":                 {"f_number", "F値", "開放F値", "最大口径比"},
	"min_focus_distance":       {"min_focus_distance", "最短撮影距離", "最短合焦距離", "最小撮影距離", "最小フォーカシングディスタンス", "Working range"},
	"magnification":            {"magnification", "最大撮影倍率", "最大倍率", "撮影倍率", "最大倍率比", "Largest reproduction ratio"},
	"equivalent_magnification": {"equivalent_magnification", "35mm判換算最大撮影倍率", "最大撮影倍率（35mm判換算）"},
	"filter_diameter":          {"filter_diameter", "フィルターサイズ", "フィルター径", "フィルタースレッド", "Filter mount"},
	"dimensions":               {"dimensions", "最大径×全長", "大きさ 最大径×全長", "外形寸法", "サイズ"},
	"weight":                   {"weight", "質量", "重量"},
	"price":                    {"price", "希望小売価格", "メーカー希望小売価格", "価格"},
	"is_drip_proof":            {"is_drip_proof", "防塵防滴", "防滴処理", "防塵・防滴"},
	"has_image_stabilization":  {"has_image_stabilization", "手ブレ補正", "手ぶれ補正", "レンズ内手ブレ補正"},
	"is_inner_zoom":            {"is_inner_zoom", "インナーズーム"},
}

var (
	focalRangePattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm)?\s*[-–～~]\s*(\d+(?:\.\d+)?)\s*mm`)
	focalPattern         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mm`)
	leicaFocalPattern    = regexp.MustCompile(`SL\s*(\d+)(?:\s*[-–]\s*(\d+))?`)
	fNumberPattern       = regexp.MustCompile(`(?:F|f/)(\d+(?:\.\d+)?)(?:\s*[-–]\s*(\d+(?:\.\d+)?))?`)
	numberRangePattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)(?:\s*[-–～~]\s*(\d+(?:\.\d+)?))?`)
	distancePattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(mm|cm|m)\b`)
	focalDistancePattern = regexp.MustCompile(`[Ff]ocal length\s*(\d+(?:\.\d+)?)\s*mm\s*:\s*(\d+(?:\.\d+)?)\s*(mm|cm|m)\b`)
	ratioPattern         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*:\s*(\d+(?:\.\d+)?)`)
	weightPattern        = regexp.MustCompile(`(\d+(?:\.\d+)*)\s*(kg|g)\b`)
	thousandsDotPattern  = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	numberPattern        = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

var widthReplacer = func() *strings.Replacer {
	pairs := []string{
		"㎝", "cm", "cｍ", "cm", "ｃｍ", "cm", "ｍｍ", "mm", "ｍ", "m", "ｇ", "g",
		"：", ":", "，", ",", "．", ".", "－", "-", "　", " ",
	}
	for d := '0'; d <= '9'; d++ {
		pairs = append(pairs, string('０'+d-'0'), string(d))
	}
	return strings.NewReplacer(pairs...)
}()

func normalizeWidth(text string) string {
	return strings.TrimSpace(widthReplacer.Replace(text))
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(title, "　", " ")), " "))
}

// canonical resolves the sheet's titles to normalized keys. Empty values are
// treated as absent so a later alias can still provide the field.
func (s SpecSheet) canonical() map[string]string {
	byTitle := make(map[string]string, len(s))
	for title, value := range s {
		byTitle[normalizeTitle(title)] = value
	}

	out := make(map[string]string, len(specColumns))
	for key, titles := range specColumns {
		for _, title := range titles {
			if v := strings.TrimSpace(byTitle[normalizeTitle(title)]); v != "" {
				out[key] = v
				break
			}
		}
	}
	return out
}

func fieldError(key string, err error) error {
	return fmt.Errorf("%w: field '%s': %v", ErrMalformedRecord, key, err)
}

// NormalizeSpecSheet turns maker spec text into a record. Focal lengths are
// converted to 35mm-equivalent for Micro Four Thirds lenses unless the sheet
// already lists equivalent values, distances end up in millimeters and
// reproduction ratios become magnifications rounded to two decimals.
func NormalizeSpecSheet(sheet SpecSheet) (Record, error) {
	get := sheet.canonical()

	rec := Record{
		Maker:         get["maker"],
		Name:          strings.TrimSpace(strings.ReplaceAll(get["name"], "　", " ")),
		ProductNumber: strings.ReplaceAll(get["product_number"], " ", ""),
		Mount:         normalizeMount(get["mount"]),
		URL:           get["url"],
	}
	if rec.Maker == "" || rec.Name == "" {
		return Record{}, fmt.Errorf("%w: maker and name must not be empty", ErrMalformedRecord)
	}

	if id := get["id"]; id != "" {
		n, err := strconv.Atoi(id)
		if err != nil {
			return Record{}, fieldError("id", err)
		}
		rec.ID = n
	}

	wide, tele, err := parseFocalLengths(get["focal_length"], rec.Name)
	if err != nil {
		return Record{}, fieldError("focal_length", err)
	}

	crop := 1.0
	if rec.Mount == MountMicroFourThirds {
		crop = 2
	}

	if eq := get["equivalent_focal_length"]; eq != "" {
		rec.WideFocalLength, rec.TelephotoFocalLength, err = parseFocalLengths(eq, "")
		if err != nil {
			return Record{}, fieldError("equivalent_focal_length", err)
		}
	} else {
		rec.WideFocalLength, rec.TelephotoFocalLength = wide*crop, tele*crop
	}

	rec.WideFNumber, rec.TelephotoFNumber, err = parseFNumbers(get["f_number"], rec.Name)
	if err != nil {
		return Record{}, fieldError("f_number", err)
	}

	if text := get["min_focus_distance"]; text != "" {
		rec.WideMinFocusDistance, rec.TelephotoMinFocusDistance, err = parseDistances(text, wide, tele)
		if err != nil {
			return Record{}, fieldError("min_focus_distance", err)
		}
	}

	if text := get["equivalent_magnification"]; text != "" {
		rec.MaxPhotographingMagnification, err = magnification(text, decimal.NewFromInt(1))
		if err != nil {
			return Record{}, fieldError("equivalent_magnification", err)
		}
	} else if text := get["magnification"]; text != "" {
		rec.MaxPhotographingMagnification, err = magnification(text, decimal.NewFromFloat(crop))
		if err != nil {
			return Record{}, fieldError("magnification", err)
		}
	}

	if text := get["filter_diameter"]; text != "" {
		rec.FilterDiameter, err = parseFilterDiameter(text)
		if err != nil {
			return Record{}, fieldError("filter_diameter", err)
		}
	}

	if text := get["dimensions"]; text != "" {
		rec.OverallDiameter, rec.OverallLength, err = parseDimensions(text)
		if err != nil {
			return Record{}, fieldError("dimensions", err)
		}
	}

	if text := get["weight"]; text != "" {
		rec.Weight, err = parseWeight(text)
		if err != nil {
			return Record{}, fieldError("weight", err)
		}
	}

	rec.Price = parsePrice(get["price"])
	rec.IsDripProof = parseFlag(get["is_drip_proof"])
	rec.HasImageStabilization = parseFlag(get["has_image_stabilization"])

	if text, ok := get["is_inner_zoom"]; ok {
		rec.IsInnerZoom = parseFlag(text)
	} else {
		rec.IsInnerZoom = wide == tele
	}

	return rec, nil
}

// ReadSpecSheetCSV reads a CSV of maker spec text, one lens per row. Values
// in defaults fill columns the sheet does not carry, typically the maker and
// the mount of a single-maker export.
func ReadSpecSheetCSV(r io.Reader, defaults SpecSheet, strict bool) (*DecodeResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read spec sheet headers: %w", err)
	}

	if !hasSpecColumn(headers, defaults, "name") {
		return nil, fmt.Errorf("%w: spec sheet has no lens name column", ErrMalformedRecord)
	}

	return readRows(reader, strict, func(row []string) (Record, error) {
		sheet := make(SpecSheet, len(headers)+len(defaults))
		for title, value := range defaults {
			sheet[title] = value
		}
		for i, title := range headers {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				sheet[title] = row[i]
			}
		}
		return NormalizeSpecSheet(sheet)
	})
}

func hasSpecColumn(headers []string, defaults SpecSheet, key string) bool {
	sheet := make(SpecSheet, len(headers))
	for title := range defaults {
		sheet[title] = "x"
	}
	for _, title := range headers {
		sheet[title] = "x"
	}
	_, ok := sheet.canonical()[key]
	return ok
}

func parseNumber(text string) float64 {
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

func parseFocalLengths(text, name string) (float64, float64, error) {
	for _, source := range []string{normalizeWidth(text), normalizeWidth(name)} {
		if source == "" {
			continue
		}
		if m := focalRangePattern.FindStringSubmatch(source); m != nil {
			return parseNumber(m[1]), parseNumber(m[2]), nil
		}
		if m := focalPattern.FindStringSubmatch(source); m != nil {
			v := parseNumber(m[1])
			return v, v, nil
		}
		if m := leicaFocalPattern.FindStringSubmatch(source); m != nil {
			wide := parseNumber(m[1])
			if m[2] == "" {
				return wide, wide, nil
			}
			return wide, parseNumber(m[2]), nil
		}
	}
	return 0, 0, errors.New("no focal length found")
}

func parseFNumbers(text, name string) (float64, float64, error) {
	text, name = normalizeWidth(text), normalizeWidth(name)

	pick := func(m []string) (float64, float64) {
		wide := parseNumber(m[1])
		if m[2] == "" {
			return wide, wide
		}
		return wide, parseNumber(m[2])
	}

	if text != "" {
		if m := fNumberPattern.FindStringSubmatch(text); m != nil {
			w, t := pick(m)
			return w, t, nil
		}
		if m := numberRangePattern.FindStringSubmatch(text); m != nil {
			w, t := pick(m)
			return w, t, nil
		}
	}
	if m := fNumberPattern.FindStringSubmatch(name); m != nil {
		w, t := pick(m)
		return w, t, nil
	}
	return 0, 0, errors.New("no f-number found")
}

func toMillimeters(value, unit string) float64 {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	switch unit {
	case "cm":
		d = d.Shift(1)
	case "m":
		d = d.Shift(3)
	}
	f, _ := d.Float64()
	return f
}

// parseDistances reads the closest focusing distance at the wide and tele
// ends. Per focal length listings are matched against the lens's focal
// lengths; otherwise the first value is the wide end and the second, if
// any, the tele end.
func parseDistances(text string, wideFocal, teleFocal float64) (float64, float64, error) {
	text = normalizeWidth(text)

	if matches := focalDistancePattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		byFocal := make(map[float64]float64, len(matches))
		for _, m := range matches {
			byFocal[parseNumber(m[1])] = toMillimeters(m[2], m[3])
		}

		first := matches[0]
		last := matches[len(matches)-1]
		wide, ok := byFocal[wideFocal]
		if !ok {
			wide = toMillimeters(first[2], first[3])
		}
		tele, ok := byFocal[teleFocal]
		if !ok {
			tele = toMillimeters(last[2], last[3])
		}
		return wide, tele, nil
	}

	matches := distancePattern.FindAllStringSubmatch(text, 2)
	switch len(matches) {
	case 0:
		return 0, 0, fmt.Errorf("no distance in '%s'", text)
	case 1:
		v := toMillimeters(matches[0][1], matches[0][2])
		return v, v, nil
	default:
		return toMillimeters(matches[0][1], matches[0][2]), toMillimeters(matches[1][1], matches[1][2]), nil
	}
}

// parseMagnification reads a reproduction ratio such as "1:2" or a plain
// magnification such as "0.25倍". When several ratios are listed the largest
// wins.
func parseMagnification(text string) (decimal.Decimal, error) {
	text = normalizeWidth(text)

	best, found := decimal.Zero, false
	for _, m := range ratioPattern.FindAllStringSubmatch(text, -1) {
		object, image := decimal.RequireFromString(m[1]), decimal.RequireFromString(m[2])
		if image.IsZero() {
			continue
		}
		if ratio := object.Div(image); !found || ratio.GreaterThan(best) {
			best, found = ratio, true
		}
	}
	if found {
		return best, nil
	}

	if n := numberPattern.FindString(text); n != "" {
		return decimal.RequireFromString(n), nil
	}
	return decimal.Zero, fmt.Errorf("no magnification in '%s'", text)
}

func magnification(text string, factor decimal.Decimal) (float64, error) {
	d, err := parseMagnification(text)
	if err != nil {
		return 0, err
	}
	f, _ := d.Mul(factor).Round(2).Float64()
	return f, nil
}

// parseFilterDiameter returns -1 for lenses that take no screw-in filter.
func parseFilterDiameter(text string) (float64, error) {
	text = normalizeWidth(text)
	switch text {
	case "-", "なし", "無し", "不可", "非対応":
		return -1, nil
	}

	n := numberPattern.FindString(text)
	if n == "" {
		return 0, fmt.Errorf("no diameter in '%s'", text)
	}
	return parseNumber(n), nil
}

func parseDimensions(text string) (float64, float64, error) {
	nums := numberPattern.FindAllString(normalizeWidth(text), 2)
	if len(nums) < 2 {
		return 0, 0, fmt.Errorf("expected diameter and length in '%s'", text)
	}
	return parseNumber(nums[0]), parseNumber(nums[1]), nil
}

func parseWeight(text string) (float64, error) {
	text = strings.ReplaceAll(normalizeWidth(text), ",", "")

	m := weightPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("no weight in '%s'", text)
	}

	value, unit := m[1], m[2]
	if unit == "g" && thousandsDotPattern.MatchString(value) {
		value = strings.ReplaceAll(value, ".", "")
	}
	if strings.Count(value, ".") > 1 {
		return 0, fmt.Errorf("no weight in '%s'", text)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	if unit == "kg" {
		d = d.Shift(3)
	}
	f, _ := d.Float64()
	return f, nil
}

// parsePrice returns 0 when the sheet lists no fixed price.
func parsePrice(text string) float64 {
	n := numberPattern.FindString(strings.ReplaceAll(normalizeWidth(text), ",", ""))
	if n == "" {
		return 0
	}
	return parseNumber(n)
}

func parseFlag(text string) bool {
	t := strings.ToLower(normalizeWidth(text))
	switch t {
	case "", "-", "0", "no", "false", "×", "なし", "無し", "無", "非対応":
		return false
	}
	return !strings.HasPrefix(t, "非")
}

func normalizeMount(text string) string {
	t := normalizeWidth(text)
	lower := strings.ToLower(t)
	switch {
	case strings.Contains(t, MountMicroFourThirds), strings.Contains(lower, "micro four thirds"):
		return MountMicroFourThirds
	case strings.Contains(t, MountLeicaL), strings.Contains(lower, "leica l"), strings.Contains(lower, "l-mount"):
		return MountLeicaL
	}
	return t
}
