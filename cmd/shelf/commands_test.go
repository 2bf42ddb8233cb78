package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupShelf creates a temporary fs shelf without git and makes it the working directory.
func setupShelf(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("versioning: none\n"), 0644))
	adapter, shelfPath = "", ""
	require.NoError(t, loadConfig())

	_, err = run(t, runInit)
	require.NoError(t, err)
	return dir
}

// run executes a command function against a throwaway cobra command and
// returns what it printed.
func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader(""))
	reasonMsg, reasonType, reasonScope = "", "", ""
	err := fn(cmd, args)
	return buf.String(), err
}

func TestSaveListGet(t *testing.T) {
	dir := setupShelf(t)

	out, err := run(t, runSave, "teams", `{"id":"furia","name":"Furia"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved teams/furia")
	assert.FileExists(t, filepath.Join(dir, "teams.json"))

	_, err = run(t, runSave, "teams", `{"name":"Loud"}`)
	require.NoError(t, err)

	listJSON, listPattern = false, ""
	out, err = run(t, runList, "teams")
	require.NoError(t, err)
	assert.Contains(t, out, "furia  Furia")
	assert.Contains(t, out, "Loud")

	out, err = run(t, runList)
	require.NoError(t, err)
	assert.Equal(t, "teams\n", out)

	out, err = run(t, runGet, "teams", "furia")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Furia"`)

	_, err = run(t, runGet, "teams", "missing")
	assert.Error(t, err)
}

func TestSaveFromStdin(t *testing.T) {
	setupShelf(t)
	saveFile = ""

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader(`{"id":"1","title":"Buy milk"}`))

	require.NoError(t, runSave(cmd, []string{"tasks", "-"}))
	assert.Contains(t, buf.String(), "Saved tasks/1")
}

func TestSaveRejectsNonObject(t *testing.T) {
	setupShelf(t)
	saveFile = ""

	_, err := run(t, runSave, "teams", `[1,2]`)
	assert.Error(t, err)
	_, err = run(t, runSave, "teams", `null`)
	assert.Error(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	setupShelf(t)
	saveFile, updateFile = "", ""

	_, err := run(t, runSave, "players", `{"id":"p1","nickname":"fallen","teamId":"furia"}`)
	require.NoError(t, err)

	out, err := run(t, runUpdate, "players", "p1", `{"teamId":"mibr"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated players/p1")

	out, err = run(t, runGet, "players", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, `"teamId": "mibr"`)
	assert.Contains(t, out, `"nickname": "fallen"`)

	_, err = run(t, runUpdate, "players", "nope", `{"x":1}`)
	assert.Error(t, err)

	out, err = run(t, runDelete, "players", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted players/p1")

	out, err = run(t, runDelete, "players", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to delete")
}

func TestFavorites(t *testing.T) {
	setupShelf(t)
	saveFile = ""
	favListJSON = false

	_, err := run(t, runSave, "recipes", `{"id":"52772","strMeal":"Teriyaki Chicken"}`)
	require.NoError(t, err)

	out, err := run(t, runFavToggle, "recipe", "recipes", "52772")
	require.NoError(t, err)
	assert.Contains(t, out, "★ recipe:52772")

	out, err = run(t, runFavList)
	require.NoError(t, err)
	assert.Contains(t, out, "recipe:52772")
	assert.Contains(t, out, "Teriyaki Chicken")

	out, err = run(t, runFavToggle, "recipe", "recipes", "52772")
	require.NoError(t, err)
	assert.Contains(t, out, "☆ recipe:52772")

	out, err = run(t, runFavList)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExportClearImport(t *testing.T) {
	dir := setupShelf(t)
	saveFile = ""
	listJSON, listPattern = false, ""

	_, err := run(t, runSave, "cache_teams", `{"id":"1"}`)
	require.NoError(t, err)
	_, err = run(t, runSave, "tasks", `{"id":"1","title":"x"}`)
	require.NoError(t, err)

	backup := filepath.Join(dir, "backup.yaml")
	exportOutput, exportFormat = backup, ""
	out, err := run(t, runExport)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 namespaces")

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(data), "namespaces:")

	clearYes = false
	_, err = run(t, runClear, "*")
	require.Error(t, err)

	clearYes = true
	out, err = run(t, runClear, "*")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 namespaces")

	out, err = run(t, runList)
	require.NoError(t, err)
	assert.Empty(t, out)

	importFormat = ""
	out, err = run(t, runImport, backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 namespaces")

	listPattern = "cache_*"
	out, err = run(t, runList)
	require.NoError(t, err)
	assert.Equal(t, "cache_teams\n", out)
}

func TestExportToStdout(t *testing.T) {
	setupShelf(t)
	saveFile = ""

	_, err := run(t, runSave, "tasks", `{"id":"1","title":"x"}`)
	require.NoError(t, err)

	exportOutput, exportFormat = "", "json"
	out, err := run(t, runExport, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"tasks"`)
}

func TestInitWritesConfig(t *testing.T) {
	dir := setupShelf(t)
	require.NoError(t, os.Remove(filepath.Join(dir, configFile)))

	initConfig = true
	defer func() { initConfig = false }()

	out, err := run(t, runInit)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, VersioningNone, loaded.Versioning)
	assert.Equal(t, ".", loaded.Path)
}

func TestHistoryWithoutGit(t *testing.T) {
	setupShelf(t)
	_, err := run(t, runHistory, "teams")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "shelf version "))
}
