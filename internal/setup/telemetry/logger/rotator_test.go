package logger_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalyx/vouchbot/internal/setup/telemetry/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailWriterKeepsRecentLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.log")
	writer, err := logger.NewTailWriter(path, 5)
	require.NoError(t, err)
	defer writer.Close()

	for i := range 23 {
		_, err := fmt.Fprintf(writer, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"line 18", "line 19", "line 20", "line 21", "line 22"}, writer.Lines())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.LessOrEqual(t, len(lines), 10)
	assert.Equal(t, "line 22", lines[len(lines)-1])
}

func TestTailWriterSplitsMultilineWrites(t *testing.T) {
	t.Parallel()

	writer, err := logger.NewTailWriter(filepath.Join(t.TempDir(), "main.log"), 10)
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.Write([]byte("first\n\nsecond\nthird\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, writer.Lines())
}
