package gen

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/portland"
)

// The generated package lives next to this one so it may import the
// module's internal packages.
func TestGenerator_Generate_Compiles(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles generated code with the go tool")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not found")
	}

	ff, err := portland.File()
	require.NoError(t, err)

	file, err := NewGenerator(GeneratorConfig{FunctionName: "PortlandPD"}).Generate(ff)
	require.NoError(t, err)

	dir, err := os.MkdirTemp(".", "generated-")
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	_, err = WriteFile(file, dir)
	require.NoError(t, err)

	vet := exec.CommandContext(t.Context(), "go", "vet", "./"+filepath.Base(dir))

	out, err := vet.CombinedOutput()
	if err != nil {
		t.Logf("generated file %s:\n%s", file.Filename, file.Content)
		t.Fatalf("compile failed: %v\n%s", err, out)
	}
}
