package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.txt")
	require.NoError(t, os.WriteFile(path, []byte("BTC 97,000\n"), 0o644))

	var out bytes.Buffer
	code := run([]string{"btc looks great"}, &out, env(map[string]string{KnowledgeFileEnv: path}))
	assert.Equal(t, 0, code)
	assert.Equal(t, "BTC 97,000 | POSITIVE\n", out.String())
}

func TestRun_MessageStartingWithDash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.txt")
	require.NoError(t, os.WriteFile(path, []byte("-5 degrees in Oslo\n"), 0o644))

	var out bytes.Buffer
	code := run([]string{"-5 degrees"}, &out, env(map[string]string{KnowledgeFileEnv: path}))
	assert.Equal(t, 0, code)
	assert.Equal(t, "-5 degrees in Oslo | NEUTRAL\n", out.String())
}

func TestRun_MissingKnowledgeFile(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"gold"}, &out, env(map[string]string{KnowledgeFileEnv: filepath.Join(t.TempDir(), "absent")}))
	assert.Equal(t, 0, code)
	assert.Equal(t, "No data found. | NEUTRAL\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, run(nil, &out, env(nil)))
	assert.Equal(t, 1, run([]string{"a", "b"}, &out, env(nil)))
	assert.Empty(t, out.String())
}
