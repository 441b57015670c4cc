package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "import", "update-ratings", "update-details", "cleanup"} {
		assert.True(t, names[want], want)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.Equal(t, "movie", importCmd.Flags().Lookup("type").DefValue)
	assert.Equal(t, "0", importCmd.Flags().Lookup("pages").DefValue)
}

func TestCleanupAgainstFreshDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cineclass.yaml")
	cfg := "database:\n  type: sqlite\n  data_dir: " + dir + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--config", path, "cleanup"})
	defer func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "cleanup: seen=0")
	assert.FileExists(t, filepath.Join(dir, "cineclass.db"))
}

func TestImportRejectsUnknownType(t *testing.T) {
	rootCmd.SetArgs([]string{"import", "--type", "anime"})
	defer func() {
		rootCmd.SetArgs(nil)
		importType = "movie"
	}()

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "--type must be movie, tv or all")
}
