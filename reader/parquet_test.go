package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stationRow struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Temp   float64 `parquet:"temp"`
	Active bool    `parquet:"active"`
}

func writeParquetFile(t *testing.T, rows []stationRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.parquet")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[stationRow](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return path
}

func TestReadParquet(t *testing.T) {
	path := writeParquetFile(t, []stationRow{
		{ID: 1, Name: "Porto", Temp: 22.5, Active: true},
		{ID: 2, Name: "Braga", Temp: 19, Active: false},
	})

	columns, rows, err := ReadParquet(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id", "name", "temp", "active"}, columns)
	require.Len(t, rows, 2)

	// Values are normalized to the engine's scalar set
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "Porto", rows[0]["name"])
	assert.Equal(t, 22.5, rows[0]["temp"])
	assert.Equal(t, "true", rows[0]["active"])
	assert.Equal(t, "false", rows[1]["active"])
}

func TestReadParquet_EmptyFile(t *testing.T) {
	path := writeParquetFile(t, nil)

	columns, rows, err := ReadParquet(path)
	require.NoError(t, err)
	assert.NotEmpty(t, columns)
	assert.Empty(t, rows)
}

func TestReadParquet_NotAParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.parquet")
	require.NoError(t, os.WriteFile(path, []byte("not parquet"), 0o644))

	_, _, err := ReadParquet(path)
	require.Error(t, err)
}

func TestReadTable_RoutesParquet(t *testing.T) {
	path := writeParquetFile(t, []stationRow{{ID: 7, Name: "Faro", Temp: 28, Active: true}})

	_, rows, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0]["id"])
}
