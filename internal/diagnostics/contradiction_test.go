package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pspoerri/wfcsynth/internal/wfc"
)

func TestDiagnose_Exhausted(t *testing.T) {
	initial := map[int]struct{}{0: {}, 1: {}, 2: {}}
	g, err := wfc.New(3, 3, initial, 4)
	assert.NoError(t, err)

	_, _ = g.CellAt(1, 0).Intersect(map[int]struct{}{0: {}, 1: {}})
	_, _ = g.CellAt(1, 1).Intersect(map[int]struct{}{0: {}})
	_, _ = g.CellAt(2, 1).Intersect(map[int]struct{}{0: {}, 1: {}})

	failing := &wfc.ExhaustedError{Index: 1*3 + 1} // (x=1, y=1)
	report, ok := Diagnose(g, failing)
	assert.True(t, ok)
	assert.Equal(t, 1, report.X)
	assert.Equal(t, 1, report.Y)
	assert.GreaterOrEqual(t, report.ClusterSize, 1)
	assert.Contains(t, report.String(), "contradiction at (1, 1)")
}

func TestDiagnose_WrappedError(t *testing.T) {
	g, err := wfc.New(2, 2, map[int]struct{}{0: {}}, 1)
	assert.NoError(t, err)

	wrapped := errors.Join(errors.New("propagation failed"), &wfc.ExhaustedError{Index: 0})
	report, ok := Diagnose(g, wrapped)
	assert.True(t, ok)
	assert.Equal(t, 0, report.X)
	assert.Equal(t, 0, report.Y)
}

func TestDiagnose_OtherError(t *testing.T) {
	g, err := wfc.New(2, 2, map[int]struct{}{0: {}}, 1)
	assert.NoError(t, err)

	_, ok := Diagnose(g, errors.New("unrelated failure"))
	assert.False(t, ok)
}
