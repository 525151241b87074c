package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/version"
)

func execute(args ...string) (string, error) {
	root := rootCommand()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, version.SourceVersion)
}

func TestExampleConfigCommand(t *testing.T) {
	out, err := execute("example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[Cosmology]")
}

func TestCommandErrors(t *testing.T) {
	defer logging.SetMode(logging.Performance)

	tests := [][]string{
		{"version", "--log", "meow"},
		{"preprocess"},
		{"divide", "--prefix", "x", "--ijob", "3", "--njob", "2"},
		{"combine"},
		{"version", "extra"},
		{"meow"},
	}

	for _, args := range tests {
		_, err := execute(args...)
		assert.Error(t, err, "%v", args)
	}
}
