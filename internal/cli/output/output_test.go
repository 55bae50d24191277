package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	f, err := New("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = New("table")
	require.NoError(t, err)
	assert.IsType(t, &TableFormatter{}, f)

	_, err = New("xml")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := (&JSONFormatter{}).Format(&buf, map[string]int{"count": 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 2}`, buf.String())
}

func TestTableRender(t *testing.T) {
	table := NewTable("ID", "CLASS")
	table.AddRow("client-1", "public")
	table.AddRow("client-2", "private")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "CLASS")
	assert.Contains(t, lines[1], "client-1")
	assert.Contains(t, lines[2], "private")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, map[string]string{"status": "healthy"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "healthy"}`, buf.String())
}
