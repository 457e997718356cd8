package model_test

import (
	"testing"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMode(t *testing.T) {
	assert.Equal(t, model.ModeProcess, model.NormalizeMode("process"))
	assert.Equal(t, model.ModeStatus, model.NormalizeMode("status"))
	assert.Equal(t, model.ModeGlobal, model.NormalizeMode("global"))
	assert.Equal(t, model.ModeGlobal, model.NormalizeMode("bogus"))
	assert.Equal(t, model.ModeGlobal, model.NormalizeMode(""))
}

func TestParseMode(t *testing.T) {
	for _, m := range model.Modes {
		got, err := model.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := model.ParseMode("  Process ")
	require.NoError(t, err)
	assert.Equal(t, model.ModeProcess, got)

	_, err = model.ParseMode("bogus")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidMode))
	assert.Contains(t, err.Error(), "bogus")
}

func TestGlobalMetricsKeepsInsertionOrder(t *testing.T) {
	g := model.NewGlobalMetrics()
	g.Set("b", "1")
	g.Set("a", "2")
	g.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, g.Keys())
	assert.Equal(t, 2, g.Len())
	v, ok := g.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, g.Map())
}
