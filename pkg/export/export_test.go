package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"rank", "title", "totalReceived"},
		Rows: []map[string]string{
			{"rank": "1", "title": "Bridge, v2", "totalReceived": "50"},
			{"rank": "2", "title": "=HYPERLINK(\"x\")", "totalReceived": "-1.5"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,title,totalReceived", lines[0])
	assert.Equal(t, `1,"Bridge, v2",50`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `2,"'=HYPERLINK`))
	assert.True(t, strings.HasSuffix(lines[2], ",-1.5"))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestNeutralizeFormula(t *testing.T) {
	assert.Equal(t, "'@sum", neutralizeFormula("@sum"))
	assert.Equal(t, "'-cmd", neutralizeFormula("-cmd"))
	assert.Equal(t, "-42", neutralizeFormula("-42"))
	assert.Equal(t, "'-", neutralizeFormula("-"))
	assert.Equal(t, "plain", neutralizeFormula("plain"))
}

func TestPDFExporterRender(t *testing.T) {
	rows := make([]map[string]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, map[string]string{"id": "row", "title": strings.Repeat("long title ", 10)})
	}
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"id", "title"}, Rows: rows}, "Fall 2024 - projects")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
