package enhance

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/whitebg/enhance/segment"
)

// fakeSegmenter 记录是否被调用，返回预置结果
type fakeSegmenter struct {
	called bool
	out    []byte
	err    error
}

func (f *fakeSegmenter) Segment(ctx context.Context, img []byte) ([]byte, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return img, nil
}

func TestPipeline_Process_OpaqueInput(t *testing.T) {
	t.Parallel()

	p := NewPipeline(segment.NewPassthrough(), DefaultOptions())
	input := encodePNG(t, solidNRGBA(100, 100, color.NRGBA{G: 200, A: 255}))

	out, err := p.Process(context.Background(), input)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestPipeline_Process_NoObject(t *testing.T) {
	t.Parallel()

	// alpha 全零 → NoObjectDetected，不产出任何字节
	p := NewPipeline(segment.NewPassthrough(), DefaultOptions())
	input := encodePNG(t, solidNRGBA(50, 50, color.NRGBA{R: 10, G: 20, B: 30, A: 0}))

	out, err := p.Process(context.Background(), input)
	require.ErrorIs(t, err, ErrNoObjectDetected)
	assert.Nil(t, out)
}

func TestPipeline_Process_CorruptInput(t *testing.T) {
	t.Parallel()

	p := NewPipeline(segment.NewPassthrough(), DefaultOptions())
	out, err := p.Process(context.Background(), []byte("definitely not an image"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, out)
}

func TestPipeline_Process_CallsSegmenterWhenNoAlpha(t *testing.T) {
	t.Parallel()

	// 分割结果：透明底 + 中间一块不透明物体
	cut := solidNRGBA(40, 40, color.NRGBA{A: 0})
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			cut.SetNRGBA(x, y, color.NRGBA{R: 120, G: 60, B: 60, A: 255})
		}
	}
	seg := &fakeSegmenter{out: encodePNG(t, cut)}
	p := NewPipeline(seg, DefaultOptions())

	input := encodePNG(t, solidNRGBA(40, 40, color.NRGBA{R: 120, G: 60, B: 60, A: 255}))
	out, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, seg.called)
	assert.NotEmpty(t, out)
}

func TestPipeline_Process_SkipsSegmenterWithUsefulAlpha(t *testing.T) {
	t.Parallel()

	seg := &fakeSegmenter{err: errors.New("must not be called")}
	p := NewPipeline(seg, DefaultOptions())

	// 带一个非 255 的 alpha 像素就算已有抠图
	img := solidNRGBA(40, 40, color.NRGBA{R: 80, G: 80, B: 80, A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})

	_, err := p.Process(context.Background(), encodePNG(t, img))
	require.NoError(t, err)
	assert.False(t, seg.called)
}

func TestPipeline_Process_SegmenterFailureIsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seg  segment.Segmenter
	}{
		{name: "传输错误", seg: &fakeSegmenter{err: errors.New("boom")}},
		{name: "输出不是图片", seg: &fakeSegmenter{out: []byte("garbage")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.seg, DefaultOptions())
			input := encodePNG(t, solidNRGBA(20, 20, color.NRGBA{R: 50, G: 50, B: 50, A: 255}))
			_, err := p.Process(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPipeline_Process_CapsLongEdge(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.MaxDimension = 32
	p := NewPipeline(segment.NewPassthrough(), opts)

	input := encodePNG(t, solidNRGBA(100, 50, color.NRGBA{R: 200, G: 10, B: 10, A: 255}))
	out, err := p.Process(context.Background(), input)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestPipeline_Process_DeterministicOutput(t *testing.T) {
	t.Parallel()

	p := NewPipeline(segment.NewPassthrough(), DefaultOptions())
	input := encodePNG(t, solidNRGBA(64, 64, color.NRGBA{R: 30, G: 144, B: 255, A: 255}))

	a, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	b, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
