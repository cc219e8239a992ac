package segment

import (
	"context"
)

// Segmenter 背景分割模型的能力边界：编码图片字节进，
// 带 alpha 通道（前景/背景）的编码图片字节出，模型本身是黑盒
type Segmenter interface {
	Segment(ctx context.Context, img []byte) ([]byte, error)
}

// Passthrough 不调模型，原样返回
// 输入本身已带抠图 alpha、或测试用合成掩码时使用
type Passthrough struct{}

func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

func (p *Passthrough) Segment(ctx context.Context, img []byte) ([]byte, error) {
	return img, nil
}
