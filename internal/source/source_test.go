package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

func collect(t *testing.T, s Source) []record.Record {
	t.Helper()

	var out []record.Record

	for rec, err := range s.Records() {
		require.NoError(t, err)

		out = append(out, rec)
	}

	return out
}

func TestCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "comma", input: "Arrestee First Name,ARRESTEE SEX (10) eng\nJane,FEMALE\nJohn,MALE\n"},
		{name: "semicolon", input: "Arrestee First Name;ARRESTEE SEX (10) eng\nJane;FEMALE\nJohn;MALE\n"},
		{name: "tab", input: "Arrestee First Name\tARRESTEE SEX (10) eng\nJane\tFEMALE\nJohn\tMALE\n"},
		{name: "bom", input: "\ufeffArrestee First Name,ARRESTEE SEX (10) eng\nJane,FEMALE\nJohn,MALE\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, []string{"Arrestee First Name", "ARRESTEE SEX (10) eng"}, s.Header().Columns())

			recs := collect(t, s)
			require.Len(t, recs, 2)
			assert.Equal(t, 1, recs[1].Index)

			f, err := recs[1].Extract("ARRESTEE SEX (10) eng")
			require.NoError(t, err)
			assert.Equal(t, "MALE", f.Value)
		})
	}
}

func TestCSV_RaggedRows(t *testing.T) {
	s, err := NewCSV(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	require.NoError(t, err)

	recs := collect(t, s)
	require.Len(t, recs, 2)

	f, err := recs[0].Extract("c")
	require.NoError(t, err)
	assert.False(t, f.Present)

	f, err = recs[1].Extract("c")
	require.NoError(t, err)
	assert.Equal(t, "3", f.Value)
}

func TestCSV_Errors(t *testing.T) {
	_, err := NewCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = OpenCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	s, err := NewCSV(strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	assert.Len(t, collect(t, s), 1)

	for _, err := range s.Records() {
		assert.ErrorIs(t, err, ErrConsumed)
	}
}

func TestOpenCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrests.csv")
	require.NoError(t, os.WriteFile(path, []byte("Arrest Incident Number\nAB123\n"), 0o600))

	s, err := OpenCSV(path)
	require.NoError(t, err)

	defer func() { assert.NoError(t, s.Close()) }()

	recs := collect(t, s)
	require.Len(t, recs, 1)

	f, err := recs[0].Extract("Arrest Incident Number")
	require.NoError(t, err)
	assert.Equal(t, "AB123", f.Value)
}

func TestSlice(t *testing.T) {
	s := NewSlice([]string{"a"}, [][]string{{"1"}, {"2"}})
	require.NotNil(t, s.Header())
	assert.Len(t, collect(t, s), 2)

	m := Maps(map[string]string{"a": "1"})
	assert.Nil(t, m.Header())

	recs := collect(t, m)
	require.Len(t, recs, 1)

	f, err := recs[0].Extract("zzz")
	require.NoError(t, err, "unbound records treat unknown columns as missing")
	assert.False(t, f.Present)
}
