package cmd

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/coordconv/internal/types"
	"github.com/ginjaninja78/coordconv/internal/xlsxparser"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{
			in:   []string{"-ip", "W", "-op", "R", "in.csv"},
			want: []string{"--ip", "W", "--op", "R", "in.csv"},
		},
		{
			in:   []string{"-ix=2", "-append", "-l", "-v"},
			want: []string{"--ix=2", "--append", "-l", "-v"},
		},
		{
			in:   []string{"--iy", "3", "-", "out.csv"},
			want: []string{"--iy", "3", "-", "out.csv"},
		},
		{
			in:   []string{"-id", "-", "--", "-ip"},
			want: []string{"--id", "-", "--", "-ip"},
		},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, normalizeArgs(tt.in)); diff != "" {
			t.Errorf("normalizeArgs(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// execute runs the command in an empty working directory so no stray
// configuration file is picked up.
func execute(t *testing.T, invocation string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	root := newRootCmd(invocation)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(normalizeArgs(args))
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestList(t *testing.T) {
	out, err := execute(t, "coordconv", "-l")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "R  RT90      Rikets koordinatsystem 1990, Sweden's old standard (EPSG:3021)\n" +
		"S  SWEREF99  Swedish Reference Frame 1999, Lantmäteriverket, ETRS89 (EPSG:3006)\n" +
		"W  WGS84     World Geodetic System, GPS, Google Maps (EPSG:4326)\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderOnlyInput(t *testing.T) {
	in := writeInput(t, "X;Y\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	if _, err := execute(t, "coordconv", "-ip", "R", "-op", "W", in, out); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := readOutput(t, out); got != "LAT;LONG\n" {
		t.Errorf("output = %q, want %q", got, "LAT;LONG\n")
	}
}

func TestConvertRT90ToSWEREF99(t *testing.T) {
	in := writeInput(t, "X;Y\n6580994.193;1628293.529\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	if _, err := execute(t, "coordconv", in, out); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(readOutput(t, out), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "N;E" {
		t.Fatalf("output lines = %q", lines)
	}
	fields := strings.Split(lines[1], ";")
	if len(fields) != 2 {
		t.Fatalf("row = %q", lines[1])
	}
	n, _ := strconv.Atoi(fields[0])
	e, _ := strconv.Atoi(fields[1])
	if abs(n-6580822) > 1 || abs(e-674032) > 1 {
		t.Errorf("converted to (%d, %d), want about (6580822, 674032)", n, e)
	}
}

func TestInvocationNameSelectsProjections(t *testing.T) {
	in := writeInput(t, "name;lat;lon\np1;59.33023122688583;18.05918973635475\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	// The invocation name wins over -ip/-op.
	_, err := execute(t, "/usr/local/bin/wgs84_sweref99",
		"-ip", "R", "-op", "R", "-ix", "2", "-iy", "3", "-il", "1", "-od", ",", in, out)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(readOutput(t, out), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "LABEL,N,E" {
		t.Fatalf("output lines = %q", lines)
	}
	if !strings.HasPrefix(lines[1], "p1,658082") {
		t.Errorf("row = %q, want label p1 and northing near 6580822", lines[1])
	}
}

func TestEmptyInputCreatesNoOutput(t *testing.T) {
	in := writeInput(t, "")
	out := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "coordconv", in, out)
	if !errors.Is(err, types.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after empty input")
	}
}

func TestConfigurationErrors(t *testing.T) {
	in := writeInput(t, "X;Y\n1;2\n")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown projection", []string{"-ip", "Q"}},
		{"bad column", []string{"-ix", "0"}},
		{"bad encoding", []string{"-ie", "no-such-encoding"}},
		{"bad invocation", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.csv")
			invocation := "coordconv"
			if tt.name == "bad invocation" {
				invocation = "rt90_gauss"
			}

			_, err := execute(t, invocation, append(tt.args, in, out)...)
			if !errors.Is(err, types.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Errorf("output file exists after configuration error")
			}
		})
	}
}

func TestParseErrorKeepsEarlierRows(t *testing.T) {
	in := writeInput(t, "X;Y\n59.3;18.0\nabc;18.0\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "coordconv", "-ip", "W", "-op", "W", in, out)
	if !errors.Is(err, types.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	rows := readRows(t, out, ";")
	if len(rows) != 2 || rows[0][0] != "LAT" {
		t.Fatalf("output rows = %q, want header and one row", rows)
	}
	assertNear(t, rows[1], 59.3, 18.0)
}

func TestInvalidInputBytes(t *testing.T) {
	in := writeInput(t, "X;Y\n59.3;18.0\n\xff\xfe;1\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "coordconv", "-ip", "W", "-op", "W", "-append", in, out)
	if !errors.Is(err, types.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q does not name row 3", err)
	}
	if got := readOutput(t, out); strings.Contains(got, "\xff") {
		t.Errorf("invalid bytes copied to output: %q", got)
	}
}

func TestUnencodableOutputRow(t *testing.T) {
	in := writeInput(t, "name;X;Y\na;59.3;18.0\nŁódź;59.4;18.1\nc;59.5;18.2\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "coordconv", "-ip", "W", "-op", "W", "-ix", "2", "-iy", "3", "-il", "1", "-oe", "latin1", in, out)
	if !errors.Is(err, types.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q does not name row 3", err)
	}
	rows := readRows(t, out, ";")
	if len(rows) != 2 || rows[1][0] != "a" {
		t.Fatalf("output rows = %q, want header and first row", rows)
	}
	assertNear(t, rows[1][1:], 59.3, 18.0)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conf.yaml")
	cfg := "input:\n  projection: W\noutput:\n  projection: S\n  delimiter: \"|\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	in := writeInput(t, "lat;lon\n59.5;18.5\n")
	out := filepath.Join(dir, "out.csv")

	// The file asks for SWEREF99; the explicit flag switches to WGS84.
	_, err := execute(t, "coordconv", "--config", cfgPath, "-op", "W", in, out)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	rows := readRows(t, out, "|")
	if len(rows) != 2 || !cmp.Equal(rows[0], []string{"LAT", "LONG"}) {
		t.Fatalf("output rows = %q", rows)
	}
	assertNear(t, rows[1], 59.5, 18.5)
}

func TestSpreadsheetInputAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")
	out := filepath.Join(dir, "out.xlsx")

	wb := excelize.NewFile()
	for i, row := range [][]interface{}{{"X", "Y"}, {"59.5", "18.5"}} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := wb.SaveAs(in); err != nil {
		t.Fatal(err)
	}
	wb.Close()

	if _, err := execute(t, "coordconv", "-ip", "W", "-op", "W", in, out); err != nil {
		t.Fatalf("execute: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	reader, err := xlsxparser.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	var rows []types.Row
	for reader.Next() {
		rows = append(rows, reader.Row())
	}
	if err := reader.Err(); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || !cmp.Equal(rows[0], types.Row{"LAT", "LONG"}) {
		t.Fatalf("output rows = %q", rows)
	}
	assertNear(t, rows[1], 59.5, 18.5)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "coordconv", "version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "coordconv\nVersion:") {
		t.Errorf("version output = %q", out)
	}
}

func readRows(t *testing.T, path, delimiter string) [][]string {
	t.Helper()
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSuffix(readOutput(t, path), "\n"), "\n") {
		rows = append(rows, strings.Split(line, delimiter))
	}
	return rows
}

func assertNear(t *testing.T, row []string, want ...float64) {
	t.Helper()
	if len(row) != len(want) {
		t.Fatalf("row = %q, want %d fields", row, len(want))
	}
	for i, w := range want {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			t.Fatalf("field %d: %v", i+1, err)
		}
		if math.Abs(v-w) > 1e-9 {
			t.Errorf("field %d = %v, want %v", i+1, v, w)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
