package enhance

import (
	"github.com/nfnt/resize"

	"github.com/chaos-io/whitebg/pixel"
)

// hasUsefulAlpha 检查 alpha 通道是否真的包含透明信息
// 只要存在非 255（非完全不透明），就认为已有抠图，可跳过分割模型
func hasUsefulAlpha(b *pixel.Buffer) bool {
	if b.Channels != pixel.AlphaChannels {
		return false
	}
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 255 {
			return true
		}
	}
	return false
}

// capWithinMax 缩放到最长边 <= maxSize，0 表示不限制
func capWithinMax(b *pixel.Buffer, maxSize int) *pixel.Buffer {
	if maxSize <= 0 {
		return b
	}
	w, h := b.Width, b.Height
	longest := max(w, h)
	if longest <= maxSize {
		return b
	}

	scale := float64(maxSize) / float64(longest)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)

	resized := resize.Resize(uint(newW), uint(newH), b.ToNRGBA(), resize.Lanczos3)
	return pixel.FromImage(resized)
}
