package upload

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, height/2, color.RGBA{R: 255, A: 255})
	}
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, img))
	return buffer.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, jpeg.Encode(&buffer, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	return buffer.Bytes()
}

func TestValidateAcceptsImages(t *testing.T) {
	img, e := Validate("statement.PNG", pngBytes(t, 4, 4))
	require.Nil(t, e)
	assert.Equal(t, "image/png", img.MediaType)

	for _, name := range []string{"scan.jpg", "scan.jpeg"} {
		img, e = Validate(name, jpegBytes(t))
		require.Nil(t, e, name)
		assert.Equal(t, "image/jpeg", img.MediaType)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string][]byte{
		"statement.pdf": []byte("%PDF-1.4"),
		"statement.gif": []byte("GIF89a"),
		"statement":     pngBytes(t, 2, 2),
		"renamed.png":   []byte("%PDF-1.4 pretending"),
		"mismatch.jpg":  pngBytes(t, 2, 2),
		"empty.png":     nil,
	}
	for name, data := range cases {
		_, e := Validate(name, data)
		assert.NotNil(t, e, name)
	}
}

func TestIsAllowedExtension(t *testing.T) {
	assert.True(t, IsAllowedExtension("a.WebP"))
	assert.False(t, IsAllowedExtension("a.tiff"))
}

func TestPreviewFitsInsideBox(t *testing.T) {
	img, e := Validate("wide.png", pngBytes(t, 400, 100))
	require.Nil(t, e)

	dataURL, e := img.Preview(200, 200)
	require.Nil(t, e)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/png;base64,"))
	require.NoError(t, err)
	config, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 200, config.Width)
	assert.Equal(t, 50, config.Height)
}

func TestPreviewRejectsUndecodable(t *testing.T) {
	_, e := Image{Filename: "broken.png", Data: []byte("\x89PNG\r\n\x1a\nbroken")}.Preview(10, 10)
	assert.NotNil(t, e)
}
