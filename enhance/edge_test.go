package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefineEdges_FillsSinglePixelHole(t *testing.T) {
	t.Parallel()

	// 实心 255-alpha 区域中间抠一个 1 像素孔，闭运算应把它补回 255
	in := fillBuffer(t, 16, 16, 4, 120, 130, 140, 255)
	hole := in.Offset(8, 8)
	in.Pix[hole+3] = 0

	out := RefineEdges(in)
	assert.EqualValues(t, 255, out.Pix[hole+3])
	// 颜色通道不动
	assert.EqualValues(t, 120, out.Pix[hole])
}

func TestRefineEdges_IdempotentOnCleanMask(t *testing.T) {
	t.Parallel()

	// alpha 已是干净的全 255、没有孔洞，重复应用不改变任何字节
	in := fillBuffer(t, 20, 20, 4, 50, 60, 70, 255)
	once := RefineEdges(in)
	twice := RefineEdges(once)

	assert.Equal(t, in.Pix, once.Pix)
	assert.Equal(t, once.Pix, twice.Pix)
}

func TestRefineEdges_ZeroesExcludedPixels(t *testing.T) {
	t.Parallel()

	// 大片背景（alpha=0）但颜色通道有残留值，输出必须整像素清零
	in := fillBuffer(t, 24, 24, 4, 99, 88, 77, 0)
	// 左上角放一块 8x8 前景，避免整图为空
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			in.Pix[in.Offset(x, y)+3] = 255
		}
	}

	out := RefineEdges(in)
	i := out.Offset(20, 20)
	assert.Equal(t, []uint8{0, 0, 0, 0}, out.Pix[i:i+4])
	// 前景内部保持不变
	j := out.Offset(3, 3)
	assert.Equal(t, []uint8{99, 88, 77, 255}, out.Pix[j:j+4])
}

func TestRefineEdges_DegradesOnWrongChannels(t *testing.T) {
	t.Parallel()

	// 3 通道输入属于内部错误，按恒等回退，不崩管线
	in := fillBuffer(t, 4, 4, 3, 1, 2, 3)
	out := RefineEdges(in)
	require.Same(t, in, out)
}

func TestRefineEdges_SoftEdgeAlphaPreserved(t *testing.T) {
	t.Parallel()

	in := fillBuffer(t, 12, 12, 4, 10, 10, 10, 255)
	soft := in.Offset(6, 6)
	in.Pix[soft+3] = 128

	out := RefineEdges(in)
	assert.EqualValues(t, 128, out.Pix[soft+3], "半透明边缘像素保持原 alpha")
}
