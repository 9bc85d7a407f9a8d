package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFit_DownscalesKeepingAspectRatio(t *testing.T) {
	p := NewProcessor(85, 1000, 1000)

	out, changed, err := p.Fit(pngBytes(t, 2000, 1000), "image/png")
	require.NoError(t, err)
	assert.True(t, changed)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1000, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestFit_SmallImageUntouched(t *testing.T) {
	p := NewProcessor(85, 1000, 1000)
	in := pngBytes(t, 300, 200)

	out, changed, err := p.Fit(in, "image/png")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, in, out)
}

func TestFit_GIFPassThroughAndGarbage(t *testing.T) {
	p := NewProcessor(85, 10, 10)

	out, changed, err := p.Fit([]byte("GIF89a..."), "image/gif")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []byte("GIF89a..."), out)

	_, _, err = p.Fit([]byte("not an image"), "image/png")
	assert.Error(t, err)
}
