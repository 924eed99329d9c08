package minify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernel.c")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write kernel source: %v", err)
	}
	return path
}

func TestLoad_SkipsHeader(t *testing.T) {
	path := writeSource(t, "#ifdef EDIT\n#define kernel\n#endif\n// banner\nint x;\nint y;\n")

	lines, err := Load(path, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"int x;", "int y;"}, lines)
}

func TestLoad_HeaderLongerThanFile(t *testing.T) {
	path := writeSource(t, "a\nb\n")

	lines, err := Load(path, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.c"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_TrimsTrailingBlanksAndCR(t *testing.T) {
	lines, err := Read(strings.NewReader("int x;  \r\n\tint y;\t\r\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"int x;", "\tint y;"}, lines)
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name         string
		lines        []string
		lineComments bool
		want         []string
	}{
		{
			name:  "inline block comment",
			lines: []string{"int x; /* the x */", "int y;"},
			want:  []string{"int x;", "int y;"},
		},
		{
			name:  "multi-line block comment joins lines",
			lines: []string{"int x; /**", " * doc", " */", "int y;"},
			want:  []string{"int x;", "int y;"},
		},
		{
			name:  "comment containing slash is left alone",
			lines: []string{"int x; /* a/b */"},
			want:  []string{"int x; /* a/b */"},
		},
		{
			name:         "line comments kept when disabled",
			lines:        []string{"int x; // keep"},
			lineComments: false,
			want:         []string{"int x; // keep"},
		},
		{
			name:         "line comments removed when enabled",
			lines:        []string{"int x; // drop", "int y;"},
			lineComments: true,
			want:         []string{"int x;", "int y;"},
		},
		{
			name:  "empty input",
			lines: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.lines, tt.lineComments)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"collapses spaces", []string{"int   x = 1 ;"}, "int x = 1 ;"},
		{"tabs become spaces", []string{"\tint\t\tx;"}, "int x;"},
		{"lines do not fuse", []string{"return", "x;"}, "return x;"},
		{"leading indentation dropped", []string{"    a", "    b"}, "a b"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.lines))
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces around plus and semicolon", "a  +  b ;", "a+b;"},
		{"assignment", "int x = 1 ;", "int x=1;"},
		{"keeps spaces between identifiers", "const int y = a * b ;", "const int y=a*b;"},
		{"brackets and parens", "f ( a [ 1 ] , b ) { }", "f(a[1],b){}"},
		{"comparison", "if ( x < y ) z = x > y ;", "if(x<y)z=x>y;"},
		{"modulo and minus", "a % b - c", "a%b-c"},
		{"nothing to do", "int x;", "int x;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, passes := Compact(tt.input)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, passes, 1)
		})
	}
}

func TestCompact_DeepChainConverges(t *testing.T) {
	// Far more than 32 nested blanks; a fixed pass bound would stop early.
	input := "x" + strings.Repeat(" ", 200) + "=" + strings.Repeat(" ", 200) + "1"

	got, passes := Compact(input)
	assert.Equal(t, "x=1", got)
	assert.Greater(t, passes, 32)
}

func TestCompact_Idempotent(t *testing.T) {
	inputs := []string{
		"void kernel f(global int*a){a[0]=b%2+c-d/e;}",
		"for(int k=0;k<n;++k){acc+=(*end);}",
		"a+b;",
	}

	for _, in := range inputs {
		once, _ := Compact(in)
		twice, passes := Compact(once)
		assert.Equal(t, once, twice, "compaction of %q is not idempotent", in)
		assert.Equal(t, 1, passes)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `printf(\"%d\\n\",x);`, Escape(`printf("%d\n",x);`))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestPipeline_Example(t *testing.T) {
	lines, err := Read(strings.NewReader("int   x = 1 ;\n"), 0)
	require.NoError(t, err)

	got, _ := Compact(Normalize(StripComments(lines, true)))
	assert.Equal(t, "int x=1;", got)
}
