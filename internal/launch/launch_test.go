package launch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/portland"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
	"github.com/Lattice-Works/Portland-PD/internal/sink"
	"github.com/Lattice-Works/Portland-PD/internal/source"
	"github.com/Lattice-Works/Portland-PD/internal/testutil"
)

var header = []string{
	"Arrestee First Name", "Arrestee Middle Name", "Arrestee Last Name",
	"ARRESTEE RACE (11) eng", "ARRESTEE ETHNIC (32) eng", "ARRESTEE SEX (10) eng",
	"Arrestee DOB Date", "Arrest Incident Number",
	"Arrresting Ofc Frist Name", "Arresting Ofc Last Name", "Arresting Officer #",
	"Arrest Location St#", "Arrest Location Whole Street Name",
	"ARREST TYPE (186) eng", "Arrest Charges Case #", "UCR OFFN CODE (47) eng",
	"Adult Arrest Charge Seq #", "Map Ref# of Arst", "Arrestee Age",
	"ARREST STATE CHARGE (7) eng",
}

var rows = [][]string{
	{
		"Jane", "Q", "Doe", "WHITE", "NONHISPANIC", "FEMALE", "1990-02-03", "AB123",
		"John", "Smith", "4411", "100", "MAIN ST", "CUSTODY", "C-1", "13A", "1", "M12", "34", "ASSAULT",
	},
	{
		"Bob", "", "Roe", "MARTIAN", "", "MALE", "not a date", "AB124",
		"", "", "", "", "", "", "", "", "", "", "x", "",
	},
}

func portlandSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := portland.Schema(portland.DefaultOptions())
	require.NoError(t, err)

	return s
}

type failingSink struct{ err error }

func (f failingSink) Launch(context.Context, *sink.Flight) (sink.Report, error) {
	return sink.Report{}, f.err
}

func (f failingSink) Close() error { return nil }

func TestNewFlightID(t *testing.T) {
	a, b := NewFlightID(), NewFlightID()

	assert.Len(t, a, FlightIDLength)
	assert.NotEqual(t, a, b)
}

func TestRun(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			mem := sink.NewMemory(nil)

			res, err := Run(context.Background(), source.NewSlice(header, rows), portlandSchema(t), mem, Options{
				FlightID: "flight-1",
				Engine:   engine.Config{Workers: workers},
				Logger:   testutil.NewTestLogger(t),
			})
			require.NoError(t, err)

			assert.Equal(t, "flight-1", res.Report.FlightID)
			assert.Equal(t, portland.Name, res.Report.Flight)
			assert.Equal(t, 2, res.Report.Records)
			assert.Equal(t, 2, res.Stats.Records)
			assert.Equal(t, 2, res.Stats.ParseErrors)
			assert.Equal(t, 1, res.Stats.Unmapped["standardRace: MARTIAN"])

			graphs := mem.Graphs()
			require.Len(t, graphs, 2)
			assert.Equal(t, 0, graphs[0].Index)
			assert.Equal(t, 1, graphs[1].Index)

			for _, a := range graphs[0].Associations {
				assert.Equal(t, engine.StatusValid, a.Status, a.Type.Name)
			}
		})
	}
}

func TestRun_GeneratesFlightID(t *testing.T) {
	res, err := Run(context.Background(), source.NewSlice(header, rows), portlandSchema(t), sink.NewMemory(nil), Options{})
	require.NoError(t, err)
	assert.Len(t, res.Report.FlightID, FlightIDLength)
}

func TestRun_HeaderMismatch(t *testing.T) {
	bad := append([]string{"Arrestee First Nmae"}, header[1:]...)
	mem := sink.NewMemory(nil)

	_, err := Run(context.Background(), source.NewSlice(bad, nil), portlandSchema(t), mem, Options{})
	require.Error(t, err)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.True(t, schemaErr.Diagnostics.HasCode(diagnostic.CodeUnknownColumn))
	assert.Empty(t, mem.Reports())
}

func TestRun_UnboundRecords(t *testing.T) {
	src := source.Maps(map[string]string{"Arrest Incident Number": "AB1"})

	res, err := Run(context.Background(), src, portlandSchema(t), sink.NewMemory(nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Report.Records)
}

func TestRun_SinkError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Run(context.Background(), source.NewSlice(header, rows), portlandSchema(t), failingSink{err: boom}, Options{})
	require.ErrorIs(t, err, boom)
}

func TestRun_MissingArguments(t *testing.T) {
	_, err := Run(context.Background(), nil, portlandSchema(t), sink.NewMemory(nil), Options{})
	require.Error(t, err)
}
