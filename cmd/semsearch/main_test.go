package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const corpus = `
- code: CS 101
  name: Introduction to Programming
  description: Programming fundamentals in Python.
- code: CS 301
  name: Algorithms
  description: Sorting, searching and graph algorithms.
- code: MATH 221
  name: Linear Algebra
  description: Vectors and matrices.
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"semsearch"}, args...))
	return out.String(), err
}

func findFlag(cmd *cli.Command, name string) cli.Flag {
	for _, flag := range cmd.Flags {
		for _, n := range flag.Names() {
			if n == name {
				return flag
			}
		}
	}
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("import requires file", func(t *testing.T) {
		cmd := app.Command("import")
		require.NotNil(t, cmd)
		f, ok := findFlag(cmd, "file").(*cli.StringFlag)
		require.True(t, ok)
		assert.True(t, f.Required)
	})

	t.Run("vocab export requires out", func(t *testing.T) {
		cmd := app.Command("vocab")
		require.NotNil(t, cmd)
		var export *cli.Command
		for _, sub := range cmd.Subcommands {
			if sub.Name == "export" {
				export = sub
			}
		}
		require.NotNil(t, export)
		f, ok := findFlag(export, "out").(*cli.StringFlag)
		require.True(t, ok)
		assert.True(t, f.Required)
	})

	t.Run("log-level has no default", func(t *testing.T) {
		var level *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "log-level" {
				level = f
			}
		}
		require.NotNil(t, level)
		assert.Empty(t, level.Value)
	})

	t.Run("missing required flag", func(t *testing.T) {
		_, err := run(t, "--db", t.TempDir(), "import")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := run(t, "--log-level", "loud", "--db", t.TempDir(), "vocab", "show")
		assert.Error(t, err)
	})

	t.Run("invalid driver", func(t *testing.T) {
		_, err := run(t, "--driver", "postgres", "--db", t.TempDir(), "vocab", "show")
		assert.Error(t, err)
	})
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog_db")
	corpusFile := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusFile, []byte(corpus), 0o644))
	testSet := filepath.Join(dir, "tests.txt")
	require.NoError(t, os.WriteFile(testSet, []byte("graph algorithms -> CS 301\nlinear algebra -> MATH 221\nbroken line\n"), 0o644))

	out, err := run(t, "--db", db, "search", "algorithms")
	require.Error(t, err, "search before indexing")

	out, err = run(t, "--db", db, "import", "--file", corpusFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Added: 3")

	vocabFile := filepath.Join(dir, "vocab.bin")
	out, err = run(t, "--db", db, "index", "--pool-size", "2", "--vocabulary-file", vocabFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 documents")
	assert.FileExists(t, vocabFile)

	out, err = run(t, "--db", db, "search", "--explain", "graph", "algorithms")
	require.NoError(t, err)
	assert.Contains(t, out, "Query terms:")
	assert.Contains(t, out, "  1. CS 301")
	assert.Contains(t, out, "Searched in")

	out, err = run(t, "--db", db, "search", "--max-hits", "1", "--vocabulary-file", vocabFile, "linear", "algebra")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. MATH 221")
	assert.NotContains(t, out, "  2.")

	out, err = run(t, "--db", db, "evaluate", "--test-set", testSet)
	require.NoError(t, err)
	assert.Contains(t, out, "Averaged Results")

	out, err = run(t, "--db", db, "vocab", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Title weight: 3")

	out, err = run(t, "--db", db, "vocab", "show", "--code", "CS 301")
	require.NoError(t, err)
	assert.Contains(t, out, "algorithm")

	exported := filepath.Join(dir, "exported.bin")
	_, err = run(t, "--db", db, "vocab", "export", "--out", exported)
	require.NoError(t, err)
	out, err = run(t, "--db", db, "vocab", "import", "--in", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded")
}

func TestWorkflow_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "coursesearch.yaml")
	cfg := "storage:\n  driver: sqlite\n  path: " + filepath.Join(dir, "catalog.sqlite") + "\nsearch:\n  max_hits: 1\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o644))
	corpusFile := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusFile, []byte(corpus), 0o644))

	_, err := run(t, "--config", cfgFile, "import", "--file", corpusFile)
	require.NoError(t, err)
	_, err = run(t, "--config", cfgFile, "index")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgFile, "search", "programming")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. CS 101")
	assert.NotContains(t, out, "  2.")
}
