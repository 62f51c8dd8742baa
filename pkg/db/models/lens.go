package models

import (
	"time"

	"github.com/mwantia/lensdb/pkg/lens"
)

// Lens is the stored form of a lens record. Distances are in millimeters.
type Lens struct {
	ID            uint   `gorm:"primaryKey"`
	Maker         string `gorm:"type:text;not null;index:idx_lens_maker"`
	Name          string `gorm:"type:text;not null"`
	ProductNumber string `gorm:"type:text"`
	Mount         string `gorm:"type:text;index:idx_lens_mount"`
	URL           string `gorm:"type:text"`

	WideFocalLength               float64
	TelephotoFocalLength          float64
	WideFNumber                   float64
	TelephotoFNumber              float64
	WideMinFocusDistance          float64
	TelephotoMinFocusDistance     float64
	MaxPhotographingMagnification float64
	FilterDiameter                float64

	IsDripProof           bool `gorm:"default:false"`
	HasImageStabilization bool `gorm:"default:false"`
	IsInnerZoom           bool `gorm:"default:false"`

	OverallDiameter float64
	OverallLength   float64
	Weight          float64
	Price           float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Lens) TableName() string {
	return "lenses"
}

func FromRecord(rec lens.Record) Lens {
	return Lens{
		ID:                            uint(rec.ID),
		Maker:                         rec.Maker,
		Name:                          rec.Name,
		ProductNumber:                 rec.ProductNumber,
		Mount:                         rec.Mount,
		URL:                           rec.URL,
		WideFocalLength:               rec.WideFocalLength,
		TelephotoFocalLength:          rec.TelephotoFocalLength,
		WideFNumber:                   rec.WideFNumber,
		TelephotoFNumber:              rec.TelephotoFNumber,
		WideMinFocusDistance:          rec.WideMinFocusDistance,
		TelephotoMinFocusDistance:     rec.TelephotoMinFocusDistance,
		MaxPhotographingMagnification: rec.MaxPhotographingMagnification,
		FilterDiameter:                rec.FilterDiameter,
		IsDripProof:                   rec.IsDripProof,
		HasImageStabilization:         rec.HasImageStabilization,
		IsInnerZoom:                   rec.IsInnerZoom,
		OverallDiameter:               rec.OverallDiameter,
		OverallLength:                 rec.OverallLength,
		Weight:                        rec.Weight,
		Price:                         rec.Price,
	}
}

func (l Lens) Record() lens.Record {
	return lens.Record{
		ID:                            int(l.ID),
		Maker:                         l.Maker,
		Name:                          l.Name,
		ProductNumber:                 l.ProductNumber,
		Mount:                         l.Mount,
		URL:                           l.URL,
		WideFocalLength:               l.WideFocalLength,
		TelephotoFocalLength:          l.TelephotoFocalLength,
		WideFNumber:                   l.WideFNumber,
		TelephotoFNumber:              l.TelephotoFNumber,
		WideMinFocusDistance:          l.WideMinFocusDistance,
		TelephotoMinFocusDistance:     l.TelephotoMinFocusDistance,
		MaxPhotographingMagnification: l.MaxPhotographingMagnification,
		FilterDiameter:                l.FilterDiameter,
		IsDripProof:                   l.IsDripProof,
		HasImageStabilization:         l.HasImageStabilization,
		IsInnerZoom:                   l.IsInnerZoom,
		OverallDiameter:               l.OverallDiameter,
		OverallLength:                 l.OverallLength,
		Weight:                        l.Weight,
		Price:                         l.Price,
	}
}

// Records converts stored lenses into the immutable record form.
func Records(lenses []Lens) []lens.Record {
	out := make([]lens.Record, 0, len(lenses))
	for _, l := range lenses {
		out = append(out, l.Record())
	}
	return out
}
