package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/whitebg/pixel"
)

func TestCompositeOnBackdrop_Guard(t *testing.T) {
	t.Parallel()

	// alpha 全零 → 没检测到物体，绝不产出合成结果
	fg := fillBuffer(t, 50, 50, 4, 10, 20, 30, 0)
	out, err := CompositeOnBackdrop(fg, White)
	require.ErrorIs(t, err, ErrNoObjectDetected)
	assert.Nil(t, out)
}

func TestCompositeOnBackdrop_OpaqueForeground(t *testing.T) {
	t.Parallel()

	// 完全不透明的前景必须逐字节等于其 RGB 通道
	fg := fillBuffer(t, 100, 100, 4, 0, 200, 0, 255)
	out, err := CompositeOnBackdrop(fg, White)
	require.NoError(t, err)
	require.Equal(t, pixel.OpaqueChannels, out.Channels)

	for i := 0; i < len(out.Pix); i += 3 {
		assert.Equal(t, []uint8{0, 200, 0}, out.Pix[i:i+3])
	}
}

func TestCompositeOnBackdrop_HalfAlpha(t *testing.T) {
	t.Parallel()

	fg := fillBuffer(t, 2, 2, 4, 0, 0, 0, 128)
	out, err := CompositeOnBackdrop(fg, White)
	require.NoError(t, err)

	// out = (0*128 + 255*127 + 127) / 255 = 127
	assert.EqualValues(t, 127, out.Pix[0])
}

func TestCompositeOnBackdrop_SinglePixelAlphaPassesGuard(t *testing.T) {
	t.Parallel()

	fg := fillBuffer(t, 10, 10, 4, 0, 0, 0, 0)
	fg.Pix[fg.Offset(5, 5)+3] = 1

	_, err := CompositeOnBackdrop(fg, White)
	require.NoError(t, err)
}

func TestCompositeOnBackdrop_WrongChannels(t *testing.T) {
	t.Parallel()

	fg := fillBuffer(t, 4, 4, 3, 1, 2, 3)
	_, err := CompositeOnBackdrop(fg, White)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoObjectDetected)
}
