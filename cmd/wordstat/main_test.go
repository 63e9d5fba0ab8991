package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[display]\ncolor = false\n"), 0644))

	var out bytes.Buffer
	root := newRootCommand()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func books(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("le\nchat\nle\nchien\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("le\noiseau\n"), 0644))
	return a, b
}

func TestReportCommands(t *testing.T) {
	a, b := books(t)

	out, err := execute(t, "", "overlap", "--ref", "1", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "33.3%")

	out, err = execute(t, "", "unique", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "chat")
	assert.Contains(t, out, "chien")
	assert.NotContains(t, out, "oiseau")

	out, err = execute(t, "", "count", "--ref", "2", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "b.txt")

	out, err = execute(t, "", "top", "-n", "1", a)
	require.NoError(t, err)
	assert.Contains(t, out, "le")
	assert.NotContains(t, out, "chien")

	out, err = execute(t, "", "prefix", "--prefix", "CH", a)
	require.NoError(t, err)
	assert.Contains(t, out, "chat")
	assert.Contains(t, out, "chien")
}

func TestReportErrors(t *testing.T) {
	a, b := books(t)

	_, err := execute(t, "", "overlap", "--ref", "3", a, b)
	assert.ErrorContains(t, err, "out of range")

	_, err = execute(t, "", "top", "-n", "9", a)
	assert.ErrorContains(t, err, "only 3 available")

	_, err = execute(t, "", "count", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestInteractiveRoot(t *testing.T) {
	a, b := books(t)
	out, err := execute(t, "4\n6\n1\n7\n5\n", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "You must choose a reference book!")
	assert.Contains(t, out, "33.3%")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
}
