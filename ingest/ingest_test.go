package ingest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/internal/httpclient"
)

func TestReaderRows(t *testing.T) {
	input := "id,price,active\n1,+0.4,true\n2,1.0,no\n"

	r := NewReader(strings.NewReader(input), ReaderOptions{Header: true})
	rows := slices.Collect(r.Rows())

	require.NoError(t, r.Err())
	assert.Equal(t, []string{"id", "price", "active"}, r.Header())
	assert.Equal(t, [][]string{{"1", "+0.4", "true"}, {"2", "1.0", "no"}}, rows)
}

func TestReaderOptions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   ReaderOptions
		want   [][]string
		header []string
	}{
		{
			name:  "no header",
			input: "a,b\n1,2\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "tab delimiter",
			input: "1\t2\n3\t4\n",
			opts:  ReaderOptions{Delimiter: '\t'},
			want:  [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:  "comments skipped",
			input: "# generated\n1;2\n# more\n3;4\n",
			opts:  ReaderOptions{Delimiter: ';', Comment: '#'},
			want:  [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:  "trim space",
			input: " 1 , true \n",
			opts:  ReaderOptions{TrimSpace: true},
			want:  [][]string{{"1", "true"}},
		},
		{
			name:  "ragged rows",
			input: "1,2,3\n4\n5,6\n",
			want:  [][]string{{"1", "2", "3"}, {"4"}, {"5", "6"}},
		},
		{
			name:  "quoted fields",
			input: "\"March 4, 2013\",\"a \"\"b\"\"\"\n",
			want:  [][]string{{"March 4, 2013", `a "b"`}},
		},
		{
			name:   "header only",
			input:  "x,y\n",
			opts:   ReaderOptions{Header: true},
			want:   nil,
			header: []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), tt.opts)
			got := slices.Collect(r.Rows())
			require.NoError(t, r.Err())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.header, r.Header())
		})
	}
}

func TestReaderStopsEarly(t *testing.T) {
	r := NewReader(strings.NewReader("1\n2\n3\n"), ReaderOptions{})
	var got []string
	for row := range r.Rows() {
		got = append(got, row[0])
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, got)
	assert.NoError(t, r.Err())
}

func TestReaderInvalidDelimiter(t *testing.T) {
	r := NewReader(strings.NewReader("1,2\n"), ReaderOptions{Delimiter: '\n'})
	rows := slices.Collect(r.Rows())
	assert.Empty(t, rows)
	assert.Error(t, r.Err())
}

func TestSplitValues(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"1 2.5 true", []string{"1", "2.5", "true"}},
		{`"March 4, 2013" 5:40`, []string{"March 4, 2013", "5:40"}},
		{`'5:40 PM' x`, []string{"5:40 PM", "x"}},
		{`unbalanced "quote here`, []string{"unbalanced", `"quote`, "here"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitValues(tt.line, nil), tt.line)
	}
}

func TestValueReader(t *testing.T) {
	vr := NewValueReader(strings.NewReader("1 2\n\n\"3/20/2013\" yes\n"), nil)
	got := slices.Collect(vr.Values())

	require.NoError(t, vr.Err())
	assert.Equal(t, []string{"1", "2", "3/20/2013", "yes"}, got)
}

func TestResolveLocal(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a\n1\n"), 0644))

	for _, input := range []string{"data.csv", "./data.csv", filepath.Join(dir, "data.csv")} {
		src, err := Resolve(context.Background(), input, nil)
		require.NoError(t, err, input)

		assert.False(t, src.Fetched)
		assert.Empty(t, src.TempDir)
		assert.Equal(t, "data.csv", filepath.Base(src.LocalPath))
		assert.True(t, filepath.IsAbs(src.LocalPath))

		f, err := src.Open()
		require.NoError(t, err)
		rows := slices.Collect(NewReader(f, ReaderOptions{Header: true}).Rows())
		f.Close()
		assert.Equal(t, [][]string{{"1"}}, rows)

		src.Cleanup()
		src.Cleanup()
	}
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := Resolve(context.Background(), "missing.csv", nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	_, err = Resolve(context.Background(), dir, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = Resolve(context.Background(), "  ", nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestResolveHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "id,when\n1,2013-03-01\n")
	}))
	defer srv.Close()
	t.Chdir(t.TempDir())

	// the default client refuses loopback hosts
	_, err := Resolve(context.Background(), srv.URL+"/events.csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	src, err := Resolve(context.Background(), srv.URL+"/events.csv", nil,
		WithHTTPClient(httpclient.New(httpclient.AllowPrivateHosts())))
	require.NoError(t, err)

	assert.True(t, src.Fetched)
	assert.Equal(t, "events.csv", filepath.Base(src.LocalPath))
	assert.DirExists(t, src.TempDir)

	f, err := src.Open()
	require.NoError(t, err)
	rows := slices.Collect(NewReader(f, ReaderOptions{Header: true}).Rows())
	f.Close()
	assert.Equal(t, [][]string{{"1", "2013-03-01"}}, rows)

	src.Cleanup()
	assert.NoDirExists(t, src.TempDir)
}

func TestResolveStdin(t *testing.T) {
	src, err := Resolve(context.Background(), Stdin, nil)
	require.NoError(t, err)
	assert.True(t, src.IsStdin())
	assert.Equal(t, "stdin", src.Name())
	src.Cleanup()
}

func TestIsRemote(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	assert.True(t, IsRemote("https://example.com/data.csv"))
	assert.True(t, IsRemote("git::https://example.com/repo.git//data.csv"))
	assert.False(t, IsRemote("data.csv"))
	assert.False(t, IsRemote(Stdin))
}

func TestFindTable(t *testing.T) {
	write := func(dir, name string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	single := t.TempDir()
	write(single, "export")
	got, err := findTable(single)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(single, "export"), got)

	many := t.TempDir()
	write(many, "README.md")
	write(many, "nested/data.tsv")
	write(many, ".git/config")
	got, err = findTable(many)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(many, "nested", "data.tsv"), got)

	none := t.TempDir()
	write(none, "a.md")
	write(none, "b.md")
	_, err = findTable(none)
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	empty := t.TempDir()
	_, err = findTable(empty)
	assert.True(t, errors.IsNotFoundError(err))
}
