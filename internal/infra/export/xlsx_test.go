package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nickppf/nickppf-api/internal/entity"
)

func TestWriteLeads(t *testing.T) {
	leads := []*entity.Lead{
		{ID: "id-1", Status: "verified", OrderID: "42", Name: "Bold", Service: "PPF"},
		{ID: "id-2", Status: "not-verified", Name: "Saraa", Phone: "99119911", Service: "Tint"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeads(&buf, leads))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Status", "Directus ID"}, rows[0][:3])
	assert.Equal(t, "Warranty End Date", rows[0][11])
	assert.Equal(t, "42", rows[1][2])
	assert.Equal(t, "Saraa", rows[2][3])
	assert.Equal(t, "99119911", rows[2][5])
}

func TestWriteLeadsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeads(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
