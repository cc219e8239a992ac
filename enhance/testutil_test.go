package enhance

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaos-io/whitebg/pixel"
)

// fillBuffer 造一块指定颜色的缓冲
func fillBuffer(t *testing.T, w, h, channels int, vals ...uint8) *pixel.Buffer {
	t.Helper()
	require.Len(t, vals, channels)

	b, err := pixel.New(w, h, channels)
	require.NoError(t, err)
	for i := 0; i < len(b.Pix); i += channels {
		copy(b.Pix[i:i+channels], vals)
	}
	return b
}

// encodePNG 编码成 PNG 字节，当管线输入用
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

// solidNRGBA 纯色图
func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
