package record_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/record"
)

func TestParseCSVAutocast(t *testing.T) {
	data := "1\thouse\t12\t19\tapple\n2\thorse\t21.9\t19\tstrawberry\n"
	rows, err := record.ParseCSV(strings.NewReader(data), record.CSVOptions{
		Delimiter: '\t',
		IDColumn:  -1,
		Spec: record.ParseSpec{
			record.Col(0),
			record.Tuple(2, 3),
			record.Col(4),
			record.Col(1),
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].Attributes[0])
	assert.Equal(t, []record.Value{int64(12), int64(19)}, rows[0].Attributes[1])
	assert.Equal(t, "apple", rows[0].Attributes[2])
	assert.Equal(t, "house", rows[0].Attributes[3])

	assert.Equal(t, int64(2), rows[1].Attributes[0])
	assert.Equal(t, []record.Value{21.9, int64(19)}, rows[1].Attributes[1])
}

func TestParseCSVDecodesLatin1Encoding(t *testing.T) {
	data := "1\tcaf\xe9\n" // "café" encoded as ISO-8859-1
	rows, err := record.ParseCSV(strings.NewReader(data), record.CSVOptions{
		Delimiter: '\t',
		Spec:      record.ParseSpec{record.Col(0), record.Col(1)},
		Encoding:  "iso-8859-1",
		IDColumn:  -1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "café", rows[0].Attributes[1])
}

func TestParseCSVRejectsUnknownEncoding(t *testing.T) {
	_, err := record.ParseCSV(strings.NewReader("1\tx\n"), record.CSVOptions{Encoding: "shift-jis"})
	assert.Error(t, err)
}

func TestParseCSVTupleWithEmptyCellIsNull(t *testing.T) {
	data := "1\t12\t\n"
	rows, err := record.ParseCSV(strings.NewReader(data), record.CSVOptions{
		Delimiter: '\t',
		Spec:      record.ParseSpec{record.Col(0), record.Tuple(1, 2)},
		IDColumn:  -1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Attributes[1])
}

func TestParseCSVHeaderAndNBMax(t *testing.T) {
	data := "id,name\n1,a\n2,b\n3,c\n"
	rows, err := record.ParseCSV(strings.NewReader(data), record.CSVOptions{
		Delimiter: ',',
		HasHeader: true,
		NBMax:     2,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestNewDatasetSynthesizesID(t *testing.T) {
	ds, err := record.NewDataset("t", 1, []record.Record{{Attributes: []record.Value{"x"}}})
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Records[0].ID)
}

func TestNewDatasetArityMismatch(t *testing.T) {
	_, err := record.NewDataset("t", 2, []record.Record{{Attributes: []record.Value{"x"}}})
	assert.Error(t, err)
}
