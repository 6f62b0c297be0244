package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSolidPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSolidPNG(t, filepath.Join(dir, "a.png"), color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	writeSolidPNG(t, filepath.Join(dir, "b.png"), color.NRGBA{R: 110, G: 100, B: 100, A: 255})
	writeSolidPNG(t, filepath.Join(dir, "c.png"), color.NRGBA{R: 250, G: 10, B: 10, A: 255})
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir := fixture(t)
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	out, err := run(t, "search", filepath.Join(dir, "a.png"), "--database", dir, "-k", "1", "--metrics-out", metrics)
	require.NoError(t, err)
	assert.Equal(t, "Top 1 similar images:\n1: b.png (distance: 4900)\nFound 2 images. Showing top 1.\n", out)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cbir_searches_total{scheme="baseline"} 1`)

	out, err = run(t, "search", filepath.Join(dir, "a.png"), "--database", dir, "--suppress-self-match=false", "--scheme", "rg-chromaticity")
	require.NoError(t, err)
	assert.Contains(t, out, "1: a.png (distance: 0)\n")
	assert.Contains(t, out, "Found 3 images. Showing top 3.\n")
}

func TestSearchCommandErrors(t *testing.T) {
	dir := fixture(t)
	_, err := run(t, "search", filepath.Join(dir, "a.png"), "--database", dir, "--scheme", "sift")
	assert.Error(t, err)
	_, err = run(t, "search", filepath.Join(dir, "missing.png"), "--database", dir)
	assert.Error(t, err)
	_, err = run(t, "search", filepath.Join(dir, "a.png"), "--database", dir, "-k", "0")
	assert.Error(t, err)
}

func TestIndexBuildAndSearch(t *testing.T) {
	dir := fixture(t)
	idx := filepath.Join(t.TempDir(), "olympus.idx")

	out, err := run(t, "index", "build", "--database", dir, "--scheme", "spatial-color", "--out", idx)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 images with spatial-color")

	direct, err := run(t, "search", filepath.Join(dir, "b.png"), "--database", dir, "--scheme", "spatial-color", "-k", "2")
	require.NoError(t, err)
	indexed, err := run(t, "search", filepath.Join(dir, "b.png"), "--index", idx, "-k", "2")
	require.NoError(t, err)
	assert.Equal(t, direct, indexed)
}

func TestEmbeddingsCommands(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "emb.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("filename,f0,f1,f2\na.png,1,2,3\nb.png,1,2,4\nc.png,-3,-2,-1\n"), 0o644))
	db := filepath.Join(dir, "emb.sqlite")

	out, err := run(t, "embeddings", "import", "--csv", csvPath, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Imported 3 embeddings (dim 3) into "+db+".\n", out)

	out, err = run(t, "embeddings", "nearest", "a.png", "--db", db, "-k", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 2 similar images:\n1: b.png")
	assert.Contains(t, out, "2: c.png")

	_, err = run(t, "embeddings", "nearest", "zzz.png", "--db", db)
	assert.Error(t, err)

	// embedding search reads the table straight from SQLite
	images := fixture(t)
	out, err = run(t, "search", filepath.Join(images, "a.png"), "--database", images, "--scheme", "embedding", "--embeddings", db, "-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1: b.png")
}
