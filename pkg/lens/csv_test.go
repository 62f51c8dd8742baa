package lens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "maker,name,product_number,wide_focal_length,telephoto_focal_length,wide_f_number,telephoto_f_number," +
	"wide_min_focus_distance,telephoto_min_focus_distance,max_photographing_magnification,filter_diameter," +
	"is_drip_proof,has_image_stabilization,is_inner_zoom,overall_diameter,overall_length,weight,price,mount\n"

func TestReadCSV(t *testing.T) {
	data := csvHeader +
		"シグマ,16mm F1.4 DC DN,402963,32,32,1.4,1.4,250,250,0.2,67,true,false,false,72.2,92.3,405,50000,マイクロフォーサーズ\n" +
		"LAOWA,7.5mm F2,VE7520MFT,15,15,2,2,120,120,0.11,46,0,0,0,50,55,170,62000,マイクロフォーサーズ\n"

	result, err := ReadCSV(strings.NewReader(data), true)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "シグマ", first.Maker)
	assert.Equal(t, 72.2, first.OverallDiameter)
	assert.True(t, first.IsDripProof)
	assert.Equal(t, "マイクロフォーサーズ", first.Mount)

	assert.False(t, result.Records[1].IsDripProof)
}

func TestReadCSVWithIDColumnInAnyOrder(t *testing.T) {
	data := "price,id," + strings.TrimSuffix(strings.Replace(csvHeader, ",price", "", 1), "\n") + "\n" +
		"99000,7,コシナ,NOKTON 25mm,-,50,50,0.95,0.95,170,170,0.25,52,false,false,false,58.6,70,410,マイクロフォーサーズ\n"

	result, err := ReadCSV(strings.NewReader(data), true)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 7, result.Records[0].ID)
	assert.Equal(t, float64(99000), result.Records[0].Price)
}

func TestReadCSVMissingColumn(t *testing.T) {
	header := strings.Replace(csvHeader, ",weight", "", 1)
	_, err := ReadCSV(strings.NewReader(header), false)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestReadCSVBadRow(t *testing.T) {
	data := csvHeader +
		"シグマ,16mm F1.4 DC DN,402963,32,32,1.4,1.4,250,250,0.2,67,maybe,false,false,72.2,92.3,405,50000,\n" +
		"LAOWA,7.5mm F2,VE7520MFT,15,15,2,2,120,120,0.11,46,0,0,0,50,55,170,62000,\n"

	_, err := ReadCSV(strings.NewReader(data), true)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")

	result, err := ReadCSV(strings.NewReader(data), false)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Len(t, result.Dropped, 1)
}

func TestReadCSVDuplicateIDs(t *testing.T) {
	header := "id," + csvHeader
	row := "シグマ,16mm F1.4 DC DN,402963,32,32,1.4,1.4,250,250,0.2,67,true,false,false,72.2,92.3,405,50000,\n"
	data := header + "3," + row + "3," + row + "0," + row + "0," + row

	_, err := ReadCSV(strings.NewReader(data), true)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")

	result, err := ReadCSV(strings.NewReader(data), false)
	require.NoError(t, err)
	assert.Len(t, result.Records, 3, "rows without an id may repeat")
	assert.Len(t, result.Dropped, 1)
}
