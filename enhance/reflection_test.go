package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/whitebg/pixel"
)

// highlightBuffer 灰底 100，中间一块 3x3 的 255 高光
func highlightBuffer(t *testing.T) *pixel.Buffer {
	t.Helper()
	in := fillBuffer(t, 32, 32, 3, 100, 100, 100)
	for y := 15; y < 18; y++ {
		for x := 15; x < 18; x++ {
			i := in.Offset(x, y)
			in.Pix[i], in.Pix[i+1], in.Pix[i+2] = 255, 255, 255
		}
	}
	return in
}

func TestReduceReflections_BelowThresholdUntouched(t *testing.T) {
	t.Parallel()

	in := highlightBuffer(t)
	out := ReduceReflections(in, DefaultOptions())

	// 阈值以下的像素必须逐字节不变
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if in.Luminance(x, y) <= DefaultOptions().HighlightThreshold {
				i := in.Offset(x, y)
				require.Equal(t, in.Pix[i:i+3], out.Pix[i:i+3], "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestReduceReflections_HighlightReplacedByBlur(t *testing.T) {
	t.Parallel()

	in := highlightBuffer(t)
	out := ReduceReflections(in, DefaultOptions())

	// 高光中心被周边灰色拉低
	i := in.Offset(16, 16)
	assert.Less(t, out.Pix[i], in.Pix[i])
	assert.Greater(t, out.Pix[i], uint8(100))
}

func TestReduceReflections_NoHighlightIsIdentity(t *testing.T) {
	t.Parallel()

	in := fillBuffer(t, 16, 16, 3, 90, 90, 90)
	out := ReduceReflections(in, DefaultOptions())
	assert.Equal(t, in.Pix, out.Pix)
}

func TestReduceReflections_Degrades(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *pixel.Buffer
		opts func(Options) Options
	}{
		{
			name: "4通道输入",
			in:   fillBuffer(t, 8, 8, 4, 1, 2, 3, 255),
			opts: func(o Options) Options { return o },
		},
		{
			name: "偶数模糊核",
			in:   fillBuffer(t, 8, 8, 3, 1, 2, 3),
			opts: func(o Options) Options { o.BlurKernel = 4; return o },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ReduceReflections(tt.in, tt.opts(DefaultOptions()))
			require.Same(t, tt.in, out)
		})
	}
}
