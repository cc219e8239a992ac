package enhance

// Options 管线各阶段的全部可调参数，零散常量统一收在这里
type Options struct {
	// ShadowClipLimit CLAHE 的局部对比度钳制（均匀直方图高度的倍数）
	ShadowClipLimit float64
	// ShadowBlend 校正结果与原图的混合比例，0.7 = 70% 校正
	ShadowBlend float64
	// ShadowTiles 每个方向的网格瓦片数
	ShadowTiles int

	// HighlightThreshold 灰度高于该值视为反光
	HighlightThreshold uint8
	// BlurKernel 反光替换所用高斯核边长（奇数）
	BlurKernel int

	// 全局增强系数，1.0 = 不变
	Brightness float64
	Contrast   float64
	Saturation float64
	Sharpness  float64

	// MaxDimension 分割前最长边上限，0 表示不缩放
	MaxDimension int

	// JPEGQuality 输出编码质量
	JPEGQuality int
}

// DefaultOptions 参考行为的默认参数
func DefaultOptions() Options {
	return Options{
		ShadowClipLimit:    1.2,
		ShadowBlend:        0.7,
		ShadowTiles:        8,
		HighlightThreshold: 230,
		BlurKernel:         5,
		Brightness:         1.2,
		Contrast:           1.1,
		Saturation:         1.1,
		Sharpness:          1.5,
		MaxDimension:       2048,
		JPEGQuality:        95,
	}
}
