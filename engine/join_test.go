package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_MatchedKeysOnly(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("a", &Table{
		Columns: []string{"k", "x"},
		Rows: []map[string]interface{}{
			{"k": int64(1), "x": "p"},
			{"k": int64(2), "x": "q"},
		},
	})
	e.Store().SetTable("b", &Table{
		Columns: []string{"k", "y"},
		Rows: []map[string]interface{}{
			{"k": int64(1), "y": "m"},
			{"k": int64(3), "y": "n"},
		},
	})

	result, err := e.joinTables("a", "b", "k")
	require.NoError(t, err)

	assert.Equal(t, []string{"k", "x", "y"}, result.Columns)
	require.Len(t, result.Rows, 1, "keys 2 and 3 are unmatched and dropped")
	assert.Equal(t, map[string]interface{}{"k": int64(1), "x": "p", "y": "m"}, result.Rows[0])
}

func TestJoin_DuplicateRightKeys(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("left", &Table{
		Columns: []string{"k", "x"},
		Rows:    []map[string]interface{}{{"k": int64(1), "x": "p"}},
	})
	e.Store().SetTable("right", &Table{
		Columns: []string{"k", "y"},
		Rows: []map[string]interface{}{
			{"k": int64(1), "y": "first"},
			{"k": int64(1), "y": "last"},
		},
	})

	result, err := e.joinTables("left", "right", "k")
	require.NoError(t, err)

	// The lookup is last-write-wins: one merged row per left row, carrying
	// the right table's final occurrence of the key
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "last", result.Rows[0]["y"])
}

func TestJoin_RightSideWinsCollisions(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("a", &Table{
		Columns: []string{"k", "shared"},
		Rows:    []map[string]interface{}{{"k": int64(1), "shared": "from a"}},
	})
	e.Store().SetTable("b", &Table{
		Columns: []string{"k", "shared"},
		Rows:    []map[string]interface{}{{"k": int64(1), "shared": "from b"}},
	})

	result, err := e.joinTables("a", "b", "k")
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "from b", result.Rows[0]["shared"])
	assert.Equal(t, []string{"k", "shared"}, result.Columns)
}

func TestJoin_RowsMissingJoinColumnAreExcluded(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("a", &Table{
		Columns: []string{"k", "x"},
		Rows: []map[string]interface{}{
			{"x": "no key"},
			{"k": int64(1), "x": "keyed"},
		},
	})
	e.Store().SetTable("b", &Table{
		Columns: []string{"k", "y"},
		Rows: []map[string]interface{}{
			{"y": "no key either"},
			{"k": int64(1), "y": "m"},
		},
	})

	result, err := e.joinTables("a", "b", "k")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "keyed", result.Rows[0]["x"])
}

func TestJoin_DeduplicatesMergedRows(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("a", &Table{
		Columns: []string{"k", "x"},
		Rows: []map[string]interface{}{
			{"k": int64(1), "x": "p"},
			{"k": int64(1), "x": "p"},
		},
	})
	e.Store().SetTable("b", &Table{
		Columns: []string{"k", "y"},
		Rows:    []map[string]interface{}{{"k": int64(1), "y": "m"}},
	})

	result, err := e.joinTables("a", "b", "k")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
}

func TestJoin_MissingTables(t *testing.T) {
	e, _ := newTestExecutor()
	e.Store().SetTable("a", &Table{Columns: []string{"k"}})

	_, err := e.joinTables("a", "nope", "k")
	require.Error(t, err)
	_, err = e.joinTables("nope", "a", "k")
	require.Error(t, err)
}
