package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	subject := "Undangan Rapat"
	return Table{
		Columns: []string{"ID", "File Name", "Subject", "Signed At"},
		Rows: [][]interface{}{
			{"a1", "memo, final.pdf", &subject, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
			{"b2", "letter.pdf", (*string)(nil), time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleTable()))

	want := "ID,File Name,Subject,Signed At\n" +
		"a1,\"memo, final.pdf\",Undangan Rapat,2024-05-01T09:30:00Z\n" +
		"b2,letter.pdf,,2024-04-30T08:00:00Z\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(defaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "File Name", "Subject", "Signed At"}, rows[0])
	assert.Equal(t, "memo, final.pdf", rows[1][1])
	assert.Equal(t, "Undangan Rapat", rows[1][2])
}
