package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_Inheritance(t *testing.T) {
	rows := []RawRow{
		{Indent: "0", Description: "Live horses, asses, mules and hinnies:"},
		{Indent: "1", Description: "Horses:", GeneralRate: "Free", Column2Rate: "20%"},
		{Indent: "2", Description: "Purebred breeding animals", Unit: "No."},
		{HTSNumber: "0101.21.00.10", Indent: "3", Description: "Males"},
		{HTSNumber: "0101.21.00.20", Indent: "3", Description: "Females"},
		{Indent: "2", Description: "Other:", GeneralRate: "2%"},
		{HTSNumber: "0101.29.00.10", Indent: "3", Description: "Imported for immediate slaughter", Unit: "No."},
	}

	records := Flatten(rows, 10)
	require.Len(t, records, 3)

	males := records[0]
	assert.Equal(t, "0101210010", males.Code)
	assert.Equal(t, "0101.21.00.10", males.RawCode)
	assert.Equal(t, "Live horses, asses, mules and hinnies:", males.BaseDescription)
	assert.Equal(t, "Horses:", males.SpecLevels[0])
	assert.Equal(t, "Purebred breeding animals", males.SpecLevels[1])
	assert.Equal(t, "Males", males.SpecLevels[2])
	assert.Equal(t, "", males.SpecLevels[3])
	assert.Equal(t, 3, males.IndentLevel)
	// Duty and unit text inherit from the nearest ancestor that set them.
	assert.Equal(t, "Free", males.GeneralRate)
	assert.Equal(t, "20%", males.Column2Rate)
	assert.Equal(t, "No.", males.Unit)

	females := records[1]
	assert.Equal(t, "0101210020", females.Code)
	assert.Equal(t, "Females", females.SpecLevels[2])

	slaughter := records[2]
	assert.Equal(t, "0101290010", slaughter.Code)
	assert.Equal(t, "Other:", slaughter.SpecLevels[1])
	assert.Equal(t, "Imported for immediate slaughter", slaughter.SpecLevels[2])
	assert.Equal(t, "2%", slaughter.GeneralRate)
}

func TestFlatten_ShallowRowClearsDeeperState(t *testing.T) {
	rows := []RawRow{
		{Indent: "1", Description: "Cattle:"},
		{Indent: "2", Description: "Dairy:", GeneralRate: "1%"},
		{HTSNumber: "0102.21.00.10", Indent: "3", Description: "Holstein"},
		// Back up to depth 1: the dairy description and its pending rate
		// must not leak into the next subtree.
		{Indent: "1", Description: "Swine:", GeneralRate: "5%"},
		{HTSNumber: "0103.10.00.00", Indent: "2", Description: "Purebred"},
	}

	records := Flatten(rows, 10)
	require.Len(t, records, 2)

	purebred := records[1]
	assert.Equal(t, "Swine:", purebred.SpecLevels[0])
	assert.Equal(t, "Purebred", purebred.SpecLevels[1])
	assert.Equal(t, "", purebred.SpecLevels[2])
	assert.Equal(t, "5%", purebred.GeneralRate)
}

func TestFlatten_SkipsIncompleteCodes(t *testing.T) {
	rows := []RawRow{
		{HTSNumber: "0101", Indent: "0", Description: "Heading"},
		{HTSNumber: "0101.21", Indent: "1", Description: "Subheading"},
		{HTSNumber: "0101.21.00.10", Indent: "2", Description: "Terminal"},
		{HTSNumber: "0101.21.00.10.55", Indent: "2", Description: "Overlong"},
	}

	records := Flatten(rows, 10)
	require.Len(t, records, 2)
	assert.Equal(t, "0101210010", records[0].Code)
	// Longer raw codes are truncated to the canonical length.
	assert.Equal(t, "0101210010", records[1].Code)
	assert.Equal(t, "0101.21.00.10.55", records[1].RawCode)
}

func TestFlatten_UnparsableIndent(t *testing.T) {
	rows := []RawRow{
		{Indent: "1", Description: "Cattle:", GeneralRate: "3%"},
		// Indent missing: the row neither updates the hierarchy nor
		// inherits duty context.
		{HTSNumber: "0102.21.00.10", Indent: "", Description: "Orphan"},
	}

	records := Flatten(rows, 10)
	require.Len(t, records, 1)
	assert.Equal(t, "0102210010", records[0].Code)
	assert.Equal(t, "Cattle:", records[0].SpecLevels[0])
	assert.Equal(t, "", records[0].GeneralRate)
	assert.Equal(t, 0, records[0].IndentLevel)
}

func TestFlatten_ClampsIndent(t *testing.T) {
	rows := []RawRow{
		{Indent: "0", Description: "Top"},
		{HTSNumber: "0102.21.00.10", Indent: "99", Description: "Deep", GeneralRate: "3%"},
	}

	records := Flatten(rows, 4)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].IndentLevel)
	assert.Equal(t, "Deep", records[0].SpecLevels[3])
	assert.Equal(t, "3%", records[0].GeneralRate)
}

func TestReadRawCSV(t *testing.T) {
	csvData := `"HTS Number","Indent","Description","Unit of Quantity","General Rate of Duty","Special Rate of Duty","Column 2 Rate of Duty"
"","0","Live horses:","","","",""
"0101.21.00.10","1","Purebred","No.","Free","","20%"
`

	rows, err := ReadRawCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "", rows[0].HTSNumber)
	assert.Equal(t, "Live horses:", rows[0].Description)

	assert.Equal(t, "0101.21.00.10", rows[1].HTSNumber)
	assert.Equal(t, "1", rows[1].Indent)
	assert.Equal(t, "No.", rows[1].Unit)
	assert.Equal(t, "Free", rows[1].GeneralRate)
	assert.Equal(t, "20%", rows[1].Column2Rate)
}

func TestReadRawCSV_ReorderedColumns(t *testing.T) {
	csvData := `"Description","HTS Number","Indent"
"Swapped","0101.21.00.10","2"
`

	rows, err := ReadRawCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Swapped", rows[0].Description)
	assert.Equal(t, "0101.21.00.10", rows[0].HTSNumber)
	assert.Equal(t, "2", rows[0].Indent)
	assert.Equal(t, "", rows[0].GeneralRate)
}

func TestReadRawCSV_EmptyInput(t *testing.T) {
	_, err := ReadRawCSV(strings.NewReader(""))
	require.Error(t, err)
}
