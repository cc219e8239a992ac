package enhance

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/chaos-io/whitebg/enhance/segment"
	"github.com/chaos-io/whitebg/pixel"
)

// Pipeline 单张图片的完整处理流程：
// 解码 → [外部分割] → 边缘清理 → 合成到白底 → 整体调优 → JPEG 编码
// 对同一输入和参数是纯函数，跨图片没有共享可变状态，可以随意并行
type Pipeline struct {
	segmenter segment.Segmenter
	opts      Options
}

func NewPipeline(seg segment.Segmenter, opts Options) *Pipeline {
	if seg == nil {
		seg = segment.NewPassthrough()
	}
	return &Pipeline{segmenter: seg, opts: opts}
}

// Process 处理一张图，输入原始编码字节，返回白底 JPEG 字节
// 解码失败（输入或分割输出）→ ErrInvalidInput；前景为空 → ErrNoObjectDetected
// 增强阶段内部出错只会降级为恒等，绝不从这里冒出来
func (p *Pipeline) Process(ctx context.Context, input []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidInput, err)
	}

	work := capWithinMax(pixel.FromImage(src), p.opts.MaxDimension)

	// 已带有效 alpha 的输入不再过模型
	var cut *pixel.Buffer
	if hasUsefulAlpha(work) {
		cut = work
	} else {
		cut, err = p.segmentBuffer(ctx, work)
		if err != nil {
			return nil, err
		}
	}

	refined := RefineEdges(cut)

	flat, err := CompositeOnBackdrop(refined, White)
	if err != nil {
		return nil, err
	}

	toned := EnhanceTone(flat, p.opts)

	out := &bytes.Buffer{}
	if err := jpeg.Encode(out, toned.ToNRGBA(), &jpeg.Options{Quality: p.opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	slog.Debug("image processed",
		"format", format,
		"width", toned.Width,
		"height", toned.Height,
		"bytes", out.Len())

	return out.Bytes(), nil
}

// segmentBuffer 把工作副本送去分割模型，再把结果解码回 4 通道缓冲
func (p *Pipeline) segmentBuffer(ctx context.Context, work *pixel.Buffer) (*pixel.Buffer, error) {
	encoded := &bytes.Buffer{}
	if err := png.Encode(encoded, work.ToNRGBA()); err != nil {
		return nil, fmt.Errorf("encode for segmentation: %w", err)
	}

	segBytes, err := p.segmenter.Segment(ctx, encoded.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: segment: %v", ErrInvalidInput, err)
	}

	segImg, _, err := image.Decode(bytes.NewReader(segBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: decode segmentation output: %v", ErrInvalidInput, err)
	}
	return pixel.FromImage(segImg), nil
}
