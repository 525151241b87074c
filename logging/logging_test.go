package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		s     string
		flag  Flag
		valid bool
	}{
		{"nil", Nil, true},
		{"quiet", Nil, true},
		{"", Performance, true},
		{"performance", Performance, true},
		{"debug", Debug, true},
		{"meow", Nil, false},
	}

	for _, test := range tests {
		f, err := ParseFlag(test.s)
		if !test.valid {
			assert.Error(t, err, test.s)
			continue
		}
		require.NoError(t, err, test.s)
		assert.Equal(t, test.flag, f, test.s)
	}
}

func TestLoggerFollowsMode(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(nil)
	defer SetMode(Performance)

	SetMode(Nil)
	Logger().Info("hidden")
	assert.Empty(t, buf.String())

	SetMode(Performance)
	Logger().Info("shown", "index", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "index=3")

	buf.Reset()
	Logger().Debug("too verbose")
	assert.Empty(t, buf.String())

	SetMode(Debug)
	Logger().Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}

func TestMemString(t *testing.T) {
	assert.Contains(t, MemString(), "Alloc")
}
