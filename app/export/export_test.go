package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/xuri/excelize/v2"

	"circlesgraph/app/animation"
	"circlesgraph/app/columns"
	"circlesgraph/app/fileloader"
	"circlesgraph/app/pipeline"
	"circlesgraph/app/series"
	"circlesgraph/app/timestamps"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Sources: []*fileloader.Source{
			{ID: "a.txt", Kind: fileloader.KindText, Lines: []string{"x", "y"}, Fingerprint: "abc"},
			{ID: "b.json", Kind: fileloader.KindJSON, Compression: fileloader.CompressionGzip, Lines: []string{"z"}, Fingerprint: "def"},
		},
		Merge:       &series.MergeResult{Mode: series.Parallel},
		ColumnCount: 2,
		Buckets: []*columns.Bucketed{
			{Series: "a.txt", Columns: []columns.Column{
				{Index: 0, Slot: 0, Center: 1577836805, Value: 1.5, Count: 2},
				{Index: 1, Slot: 1, Center: 1577836815, Value: 3, Count: 1},
			}, ValueMin: 1.5, ValueMax: 3},
			{Series: "logs/[b].json", Columns: []columns.Column{
				{Index: 0, Slot: 1, Center: 1577836810, Value: -4, Count: 1},
			}, ValueMin: -4, ValueMax: -4},
		},
		Axis:   animation.Axis{Min: -5, Max: 4, Jump: 0.5},
		Plan:   animation.Plan{FrameCount: 40, RealFrameCount: 40, Digits: 2, Speed: 1, FPS: 25, Duration: 1.6, Delay: 10},
		Stats:  series.Stats{Lines: 3, Accepted: 3},
		Colors: []string{"red", "web-blue"},
	}
}

func TestWritePlanJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := WritePlanJSON(path, testResult()); err != nil {
		t.Fatalf("WritePlanJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read plan: %v", err)
	}
	doc, err := oj.Parse(data)
	if err != nil {
		t.Fatalf("Plan is not valid JSON: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"$.mergeMode", "parallel"},
		{"$.columnCount", int64(2)},
		{"$.axis.jump", 0.5},
		{"$.plan.realFrameCount", int64(40)},
		{"$.series[1].name", "logs/[b].json"},
		{"$.series[1].color", "web-blue"},
		{"$.series[0].columns[1].center", int64(1577836815)},
		{"$.sources[1].compression", "gzip"},
		{"$.sources[0].lines", int64(2)},
		{"$.records.accepted", int64(3)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := jp.MustParseString(tt.path).First(doc)
			if got != tt.want {
				t.Errorf("Expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestWriteColumnsXLSX(t *testing.T) {
	layout, err := timestamps.Compile("%H:%M:%S", nil)
	if err != nil {
		t.Fatalf("Failed to compile layout: %v", err)
	}
	path := filepath.Join(t.TempDir(), "columns.xlsx")
	if err := WriteColumnsXLSX(path, testResult(), layout); err != nil {
		t.Fatalf("WriteColumnsXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "a.txt" || sheets[1] != "logs__b_.json" {
		t.Fatalf("Unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows("a.txt")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "index,time,timestamp,value,records" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if strings.Join(rows[2], ",") != "1,00:00:15,1577836815,3,1" {
		t.Errorf("Unexpected row %v", rows[2])
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	long := strings.Repeat("x", 40) + ".txt"

	tests := []struct {
		in   string
		want string
	}{
		{"cpu.txt", "cpu.txt"},
		{"CPU.txt", "CPU.txt_2"},
		{"a/b:c", "a_b_c"},
		{"", "series"},
		{long, long[len(long)-31:]},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := sheetName(tt.in, used); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
