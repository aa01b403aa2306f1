package services

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipPDFsStableOrderAndContent(t *testing.T) {
	files := map[string][]byte{
		"INV-000002": []byte("second"),
		"INV-000001": []byte("first"),
		"INV-000010": []byte("tenth"),
	}

	data, err := zipPDFs(files)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	assert.Equal(t, "INV-000001.pdf", zr.File[0].Name)
	assert.Equal(t, "INV-000002.pdf", zr.File[1].Name)
	assert.Equal(t, "INV-000010.pdf", zr.File[2].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), content)
}
