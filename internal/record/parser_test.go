package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "img1.png,'てる'、ひかる,,動物,日 光",
			expected: []string{"img1.png", "'てる'、ひかる", "", "動物", "日 光"},
		},
		{
			name:     "quoted delimiter",
			line:     `a,"b,c",d`,
			expected: []string{"a", "b,c", "d"},
		},
		{
			name:     "quotes dropped mid field",
			line:     `x"y"z,w`,
			expected: []string{"xyz", "w"},
		},
		{
			name:     "unterminated quote swallows rest",
			line:     `a,"b,c`,
			expected: []string{"a", "b,c"},
		},
		{
			name:     "empty line",
			line:     "",
			expected: []string{""},
		},
		{
			name:     "trailing delimiter",
			line:     "a,",
			expected: []string{"a", ""},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, SplitLine(test.line)); diff != "" {
				t.Fatalf("SplitLine (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestNewHeaderIDColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		row    string
		id     string
	}{
		{name: "image column", header: "reading,Image", row: "よみ,a.png", id: "a.png"},
		{name: "path column", header: "reading, PATH ", row: "よみ,b.png", id: "b.png"},
		{name: "image preferred over path", header: "path,image", row: "p.png,i.png", id: "i.png"},
		{name: "first column fallback", header: "file,reading", row: "c.png,よみ", id: "c.png"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			h := NewHeader(SplitLine(test.header))
			row := NewRow(h, SplitLine(test.row))
			if got := row.ID(); got != test.id {
				t.Fatalf("ID() = %q, want %q", got, test.id)
			}
		})
	}
}

func TestParsePadsShortRows(t *testing.T) {
	doc := "path,reading,meaning,additional_info,components\r\n" +
		"img1.png,'てる'、ひかる,,動物,日 光\r\n" +
		"\r\n" +
		"img2.png,あし\n"

	table, err := ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	if got := first.Field("reading"); got != "'てる'、ひかる" {
		t.Fatalf("reading = %q", got)
	}
	if got := first.Field("additional_info"); got != "動物" {
		t.Fatalf("additional_info = %q", got)
	}

	short := table.Rows[1]
	if diff := cmp.Diff([]string{"img2.png", "あし", "", "", ""}, short.Values()); diff != "" {
		t.Fatalf("padded row (-want, +got):\n%s", diff)
	}
	if got := short.Field("components"); got != "" {
		t.Fatalf("missing components = %q, want empty", got)
	}
	if got := short.Field("no_such_column"); got != "" {
		t.Fatalf("absent column = %q, want empty", got)
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	table, err := ParseString("\ufeffImage,Reading\na.png,よみ\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"image", "reading"}, table.Header.Names()); diff != "" {
		t.Fatalf("header names (-want, +got):\n%s", diff)
	}
	if got := table.Rows[0].ID(); got != "a.png" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	table, err := ParseString("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Rows) != 0 || table.Header.Len() != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}

func TestParseAcceptsLongLines(t *testing.T) {
	long := strings.Repeat("あ", 1<<20)
	doc := "path,reading\nimg1.png," + long + "\nimg2.png,はな"

	table, err := ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Field("reading"); got != long {
		t.Fatalf("long reading truncated to %d bytes", len(got))
	}
	if got := table.Rows[1].Field("reading"); got != "はな" {
		t.Fatalf("last line without newline = %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestParseReportsReadErrors(t *testing.T) {
	if _, err := Parse(failingReader{}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected read error, got %v", err)
	}
}
