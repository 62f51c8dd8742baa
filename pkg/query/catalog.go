package query

import (
	"fmt"

	"github.com/mwantia/lensdb/pkg/lens"
)

// Catalog is the ordered registry of predicate definitions. Its order is the
// order predicates are presented and serialized in.
type Catalog struct {
	defs   []*Definition
	byName map[string]*Definition
}

// NewCatalog builds a catalog from defs in the given order.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]*Definition, len(defs)),
	}
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register appends def to the catalog.
func (c *Catalog) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("predicate name must not be empty")
	}
	if def.Match == nil {
		return fmt.Errorf("predicate '%s' has no match function", def.Name)
	}
	if _, exists := c.byName[def.Name]; exists {
		return fmt.Errorf("predicate '%s' is already registered", def.Name)
	}

	def.order = len(c.defs)
	c.defs = append(c.defs, &def)
	c.byName[def.Name] = &def
	return nil
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (*Definition, error) {
	def, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownPredicate, name)
	}
	return def, nil
}

// Definitions returns the definitions in catalog order.
func (c *Catalog) Definitions() []*Definition {
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Default returns a new catalog holding the built-in lens predicates.
func Default() *Catalog {
	c, err := NewCatalog(defaultDefinitions()...)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultDefinitions() []Definition {
	return []Definition{
		atMost("MaxWideFocalLength", "wide_focal_length",
			"広角端の換算焦点距離が", "mm 以下", UnitNone,
			func(r lens.Record) float64 { return r.WideFocalLength }),
		atLeast("MinTelephotoFocalLength", "telephoto_focal_length",
			"望遠端の換算焦点距離が", "mm 以上",
			func(r lens.Record) float64 { return r.TelephotoFocalLength }),
		atMost("MaxWideFNumber", "wide_f_number",
			"広角端のF値がF", " 以下", UnitNone,
			func(r lens.Record) float64 { return r.WideFNumber }),
		atMost("MaxTelephotoFNumber", "telephoto_f_number",
			"望遠端のF値がF", " 以下", UnitNone,
			func(r lens.Record) float64 { return r.TelephotoFNumber }),
		atMost("MaxWideMinFocusDistance", "wide_min_focus_distance",
			"広角端の最短撮影距離が", "m 以下", UnitMeters,
			func(r lens.Record) float64 { return r.WideMinFocusDistance }),
		atMost("MaxTelephotoMinFocusDistance", "telephoto_min_focus_distance",
			"望遠端の最短撮影距離が", "m 以下", UnitMeters,
			func(r lens.Record) float64 { return r.TelephotoMinFocusDistance }),
		atLeast("MinMaxPhotographingMagnification", "max_photographing_magnification",
			"換算最大撮影倍率が", "倍 以上",
			func(r lens.Record) float64 { return r.MaxPhotographingMagnification }),
		equal("FilterDiameter", "filter_diameter",
			"フィルター径が", "mm",
			func(r lens.Record) float64 { return r.FilterDiameter }),
		atMost("MaxOverallDiameter", "overall_diameter",
			"レンズ全体の直径が", "mm 以下", UnitNone,
			func(r lens.Record) float64 { return r.OverallDiameter }),
		atMost("MaxOverallLength", "overall_length",
			"レンズの全長が", "mm 以下", UnitNone,
			func(r lens.Record) float64 { return r.OverallLength }),
		atMost("MaxWeight", "weight",
			"レンズの質量が", "g 以下", UnitNone,
			func(r lens.Record) float64 { return r.Weight }),
		atMost("MaxPrice", "price",
			"レンズの希望小売価格が", "円 以下", UnitNone,
			func(r lens.Record) float64 { return r.Price }),

		flag("IsDripProof", "is_drip_proof", "防塵防滴である", IsTrue,
			func(r lens.Record) bool { return r.IsDripProof }),
		flag("HasImageStabilization", "has_image_stabilization", "手ブレ補正機能がある", IsTrue,
			func(r lens.Record) bool { return r.HasImageStabilization }),
		flag("IsInnerZoom", "is_inner_zoom", "インナーズームである", IsTrue,
			func(r lens.Record) bool { return r.IsInnerZoom }),
		flag("IsZoom", "wide_focal_length,telephoto_focal_length", "ズームレンズである", Derived,
			func(r lens.Record) bool { return r.IsZoom() }),
		flag("IsPrime", "wide_focal_length,telephoto_focal_length", "単焦点レンズである", Derived,
			func(r lens.Record) bool { return !r.IsZoom() }),
		flag("IsLensFilter", "filter_diameter", "ねじ込み式フィルターを付けられる", Derived,
			func(r lens.Record) bool { return r.FilterDiameter >= 1 }),
		flag("IsMicroFourThirds", "mount", "マイクロフォーサーズマウントである", Derived,
			func(r lens.Record) bool { return r.Mount == lens.MountMicroFourThirds }),
		flag("IsLeicaL", "mount", "ライカLマウントである", Derived,
			func(r lens.Record) bool { return r.Mount == lens.MountLeicaL }),

		{
			Name:       "FocalLengthRange",
			Prefix:     "焦点距離の取りうる倍率(＝望遠端/広角端)が",
			Suffix:     "倍以上",
			Kind:       Numeric,
			Field:      "wide_focal_length,telephoto_focal_length",
			Comparator: Derived,
			Match: func(r lens.Record, value float64) bool {
				return r.TelephotoFocalLength >= r.WideFocalLength*value
			},
		},
	}
}
