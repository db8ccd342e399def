package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/record"
	"github.com/Lattice-Works/Portland-PD/internal/testutil"
)

func rows(n int) [][]string {
	out := make([][]string, n)
	for i := range out {
		out[i] = []string{fmt.Sprintf("Name%d", i), "FEMALE", "1990-02-03", fmt.Sprintf("INC%d", i), "Smith", "2020-01-15"}
	}

	return out
}

func collect(t *testing.T, seq iter.Seq2[*Graph, error]) ([]*Graph, error) {
	t.Helper()

	var out []*Graph

	for g, err := range seq {
		if err != nil {
			return out, err
		}

		out = append(out, g)
	}

	return out, nil
}

func TestStream_PreservesOrder(t *testing.T) {
	s := testSchema(t)
	input := rows(57)

	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			m := New(s, Config{Workers: workers, Window: 5})

			graphs, err := collect(t, m.Stream(context.Background(), testutil.Records(testHeader, input...)))
			require.NoError(t, err)
			require.Len(t, graphs, len(input))

			for i, g := range graphs {
				assert.Equal(t, i, g.Index)

				inc, _ := g.Entity("Incident")
				v, _ := inc.Value("criminaljustice.incidentid")
				assert.Equal(t, fmt.Sprintf("INC%d", i), v.String())
			}

			assert.Equal(t, len(input), m.Stats().Records)
		})
	}
}

func TestStream_EarlyBreak(t *testing.T) {
	m := New(testSchema(t), Config{Workers: 4})

	seen := 0
	for _, err := range m.Stream(context.Background(), testutil.Records(testHeader, rows(40)...)) {
		require.NoError(t, err)

		seen++
		if seen == 3 {
			break
		}
	}

	assert.Equal(t, 3, seen)
}

func TestStream_SourceError(t *testing.T) {
	boom := errors.New("bad row")
	h := record.NewHeader(testHeader)

	source := func(yield func(record.Record, error) bool) {
		for i, row := range rows(3) {
			if !yield(h.Record(i, row), nil) {
				return
			}
		}

		yield(record.Record{}, boom)
	}

	for _, workers := range []int{1, 3} {
		m := New(testSchema(t), Config{Workers: workers})

		graphs, err := collect(t, m.Stream(context.Background(), source))
		assert.ErrorIs(t, err, boom)
		assert.Len(t, graphs, 3, "records before the error are still emitted")
	}
}

func TestStream_UnknownColumnStops(t *testing.T) {
	for _, workers := range []int{1, 3} {
		m := New(testSchema(t), Config{Workers: workers})

		graphs, err := collect(t, m.Stream(context.Background(), testutil.Records([]string{"First Name"}, []string{"Jane"})))
		assert.ErrorIs(t, err, record.ErrUnknownColumn)
		assert.Empty(t, graphs)
	}
}

func TestStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		m := New(testSchema(t), Config{Workers: workers})

		graphs, err := collect(t, m.Stream(ctx, testutil.Records(testHeader, rows(10)...)))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, graphs)
	}
}
