package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// writeFixture saves a workbook with a main sheet, an items sub-sheet and a
// sheet nested under items.
func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "main")
	f.SetSheetRow("main", "A1", &[]interface{}{"ocid", "id", "title", "#note"})
	f.SetSheetRow("main", "A2", &[]interface{}{"ocds-1", "r1", "First", "ignored"})
	f.SetSheetRow("main", "A3", &[]interface{}{"ocds-2", "r2", "Second"})

	f.NewSheet("items")
	f.SetSheetRow("items", "A1", &[]interface{}{"ocid", "id", "items/0/id", "items/0/quantity"})
	f.SetSheetRow("items", "A2", &[]interface{}{"ocds-1", "r1", "i1", 3})
	f.SetSheetRow("items", "A3", &[]interface{}{"ocds-1", "r1", "i2", 4})
	f.SetSheetRow("items", "A4", &[]interface{}{"", "r2", "i3", 5})

	f.NewSheet("units")
	f.SetSheetRow("units", "A1", &[]interface{}{"ocid", "id", "items/0/id", "items/0/unit/name"})
	f.SetSheetRow("units", "A2", &[]interface{}{"ocds-1", "r1", "i2", "kg"})

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun_XLSX(t *testing.T) {
	input := writeFixture(t)
	out := filepath.Join(t.TempDir(), "out.json")

	_, stderr, err := execute(t, input, "-o", out, "--sub-sheet", "units=items", "--envelope", "releases")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data), string(data))
	assert.NotContains(t, string(data), "#note")

	releases := gjson.GetBytes(data, "releases")
	require.Equal(t, int64(2), releases.Get("#").Int())

	first := releases.Get("0")
	assert.Equal(t, "First", first.Get("title").String())
	assert.Equal(t, int64(2), first.Get("items.#").Int())
	assert.Equal(t, int64(4), first.Get(`items.#(id=="i2").quantity`).Int())
	assert.Equal(t, "kg", first.Get(`items.#(id=="i2").unit.name`).String())

	second := releases.Get("1")
	assert.Equal(t, "r2", second.Get("id").String())
	assert.False(t, second.Get("items").Exists())

	assert.Contains(t, stderr, "no parent id fields populated")
	assert.Contains(t, stderr, "Line 4 of sheet items")
}

func TestRun_Stdout(t *testing.T) {
	input := writeFixture(t)

	stdout, _, err := execute(t, input, "--lines", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ocds-1", gjson.Get(lines[0], "ocid").String())
	assert.Equal(t, "r2", gjson.Get(lines[1], "id").String())
}

func TestRun_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "releases.csv"),
		[]byte("uid,id,title\n1,a,A\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.csv"),
		[]byte("uid,id,tags.0\n1,a,x\n1,a,\n"), 0644))

	cfgPath := filepath.Join(t.TempDir(), "unflatten.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`main-sheet: releases
separator: "."
envelope: data
meta:
  - version=1.1
`), 0644))
	t.Setenv("UNFLATTEN_ROOT_ID", "uid")

	stdout, _, err := execute(t, dir, "--config", cfgPath, "--input-format", "csv")
	require.NoError(t, err)

	assert.Equal(t, "1.1", gjson.Get(stdout, "version").String())
	assert.Equal(t, int64(1), gjson.Get(stdout, "data.0.uid").Int())
	assert.Equal(t, "A", gjson.Get(stdout, "data.0.title").String())
	assert.Equal(t, `["x"]`, gjson.Get(stdout, "data.0.tags").Raw)
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	input := writeFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "unflatten.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("main-sheet: nope\n"), 0644))

	_, _, err := execute(t, input, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main sheet not found")

	_, _, err = execute(t, input, "--config", cfgPath, "--main-sheet", "main", "--log-level", "error")
	assert.NoError(t, err)
}

func TestRun_Errors(t *testing.T) {
	input := writeFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing input", args: []string{filepath.Join(t.TempDir(), "nope.xlsx")}, want: "file not found"},
		{name: "bad format", args: []string{input, "--input-format", "ods"}, want: "unknown input format"},
		{name: "bad log level", args: []string{input, "--log-level", "loud"}, want: "log level"},
		{name: "bad output options", args: []string{input, "--lines", "--pretty"}, want: "invalid output options"},
		{name: "root id equals id", args: []string{input, "--root-id", "id"}, want: "invalid configuration"},
		{name: "missing config", args: []string{input, "--config", filepath.Join(t.TempDir(), "none.yaml")}, want: "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_ConfigFileKeepsSheetNameCase(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Main")
	f.SetSheetRow("Main", "A1", &[]interface{}{"ocid", "id"})
	f.SetSheetRow("Main", "A2", &[]interface{}{"ocds-1", "r1"})
	f.NewSheet("Items")
	f.SetSheetRow("Items", "A1", &[]interface{}{"ocid", "id", "items/0/id"})
	f.SetSheetRow("Items", "A2", &[]interface{}{"ocds-1", "r1", "i1"})
	f.NewSheet("Units")
	f.SetSheetRow("Units", "A1", &[]interface{}{"ocid", "id", "items/0/id", "items/0/unit"})
	f.SetSheetRow("Units", "A2", &[]interface{}{"ocds-1", "r1", "i1", "kg"})
	input := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	cfgPath := filepath.Join(t.TempDir(), "unflatten.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`main-sheet: Main
envelope: releases
sub-sheet:
  - Units=Items
meta:
  - Publisher.Name=Open Data
`), 0644))

	stdout, _, err := execute(t, input, "--config", cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "kg", gjson.Get(stdout, "releases.0.items.0.unit").String())
	assert.Equal(t, "Open Data", gjson.Get(stdout, "Publisher.Name").String())
}

func TestRun_SubSheetConfigErrors(t *testing.T) {
	input := writeFixture(t)

	_, _, err := execute(t, input, "--sub-sheet", "Units=items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Units" not found`)

	_, _, err = execute(t, input, "--sub-sheet", "units")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want key=value")

	cfgPath := filepath.Join(t.TempDir(), "unflatten.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sub-sheet:\n  Units: Items\n"), 0644))
	_, _, err = execute(t, input, "--config", cfgPath)
	assert.Error(t, err)
}

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs("meta", []string{"Publisher.Name = Open Data", "a=1", "a=2", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Publisher.Name": "Open Data", "a": "2", "empty": ""}, pairs)

	pairs, err = parsePairs("meta", nil)
	require.NoError(t, err)
	assert.Nil(t, pairs)

	_, err = parsePairs("meta", []string{"=x"})
	assert.Error(t, err)
}
