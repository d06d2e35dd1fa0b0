package colmode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/colmode"
	"github.com/dshills/colstorm/internal/engine"
	"github.com/dshills/colstorm/internal/engine/buffer"
	"github.com/dshills/colstorm/internal/engine/column"
)

func TestSelection(t *testing.T) {
	e := engine.New(buffer.NewBufferFromString("a\nb\nc"))
	_, err := colmode.Selection(e, nil)
	require.ErrorIs(t, err, colmode.ErrNotLoaded)

	_, err = e.LoadAll(column.Input{Delimiter: ",", Columns: "3,1,3"})
	require.NoError(t, err)

	cols, err := colmode.Selection(e, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 3}, cols)

	cols, err = colmode.Distinct(e, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, cols)

	cols, err = colmode.Selection(e, []int{2})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, cols)
}

func TestLines(t *testing.T) {
	e := engine.New(buffer.NewBufferFromString("a\nb\nc"), engine.WithConfig(column.MustParse(column.Input{Delimiter: ","})))

	tests := []struct {
		from, to         int
		wantFrom, wantTo int
	}{
		{0, -1, 0, 3},
		{1, 2, 1, 2},
		{-4, 9, 0, 3},
		{5, 2, 2, 2},
	}
	for _, tt := range tests {
		from, to := colmode.Lines(e, tt.from, tt.to)
		assert.Equal(t, tt.wantFrom, from)
		assert.Equal(t, tt.wantTo, to)
	}
}
