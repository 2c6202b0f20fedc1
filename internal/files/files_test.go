package files

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestParseImportFileCSV(t *testing.T) {
	csv := "Customer No,Txn No,Total\n" +
		"007,1001,120\n" +
		"42,1002,60\n"

	rows, header, err := ParseImportFile(strings.NewReader(csv), "import.csv")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Customer No", "Txn No", "Total"}, header)
	assert.Len(t, rows, 2)
	assert.Equal(t, "007", rows[0]["Customer No"])
	assert.Equal(t, "60", rows[1]["Total"])
}

func TestParseImportFileKeepsInteriorBlankRows(t *testing.T) {
	// The blank line in the middle must survive so that error row numbers
	// still line up with the file; the trailing blanks must not.
	csv := "Customer No,Txn No\n" +
		"007,1001\n" +
		",\n" +
		"42,1002\n" +
		",\n" +
		",\n"

	rows, _, err := ParseImportFile(strings.NewReader(csv), "import.csv")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "", rows[1]["Customer No"])
	assert.Equal(t, "42", rows[2]["Customer No"])
}

func TestParseImportFileShortRecords(t *testing.T) {
	// Exported sheets often drop trailing empty cells; missing cells read
	// as empty strings rather than failing the parse.
	csv := "Customer No,Txn No,Total\n" +
		"007,1001\n"

	rows, _, err := ParseImportFile(strings.NewReader(csv), "import.csv")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Total"])
}

func TestParseImportFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	assert.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Customer No", "Txn No", "Total"}))
	assert.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"007", "1001", 120}))
	assert.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"42", "1002", 60}))

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))

	rows, header, err := ParseImportFile(&buf, "import.xlsx")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Customer No", "Txn No", "Total"}, header)
	assert.Len(t, rows, 2)
	assert.Equal(t, "007", rows[0]["Customer No"])
	assert.Equal(t, "1001", rows[0]["Txn No"])
}

func TestParseImportFileUnsupportedType(t *testing.T) {
	_, _, err := ParseImportFile(strings.NewReader("{}"), "import.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestParseImportFileEmpty(t *testing.T) {
	_, _, err := ParseImportFile(strings.NewReader(""), "import.csv")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file is empty")
}
