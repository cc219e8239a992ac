package enhance

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/chaos-io/whitebg/pixel"
)

// EnhanceTone 合成到不透明底色之后的整体调优，固定顺序：
// 反光压制 → 阴影校正 → 亮度 → 对比度 → 饱和度 → 锐度
// 每个子阶段单独回退（跳过出错的那一步），不会整体失败
func EnhanceTone(in *pixel.Buffer, opts Options) *pixel.Buffer {
	out := ReduceReflections(in, opts)
	out = CorrectShadows(out, opts)
	out = degrade("brightness", out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return scaleBrightness(b, opts.Brightness)
	})
	out = degrade("contrast", out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return scaleContrast(b, opts.Contrast)
	})
	out = degrade("saturation", out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return scaleSaturation(b, opts.Saturation)
	})
	out = degrade("sharpness", out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return scaleSharpness(b, opts.Sharpness)
	})
	return out
}

func checkOpaque(b *pixel.Buffer, factor float64) error {
	if b.Channels != pixel.OpaqueChannels {
		return fmt.Errorf("tone scale expects 3 channels, got %d", b.Channels)
	}
	if factor <= 0 {
		return fmt.Errorf("enhancement factor %v must be positive", factor)
	}
	return nil
}

// scaleBrightness 每个通道乘以系数
func scaleBrightness(in *pixel.Buffer, f float64) (*pixel.Buffer, error) {
	if err := checkOpaque(in, f); err != nil {
		return nil, err
	}
	out := in.Clone()
	for i := range out.Pix {
		out.Pix[i] = pixel.Clamp(float64(in.Pix[i]) * f)
	}
	return out, nil
}

// scaleContrast 以全图平均亮度为轴拉伸
func scaleContrast(in *pixel.Buffer, f float64) (*pixel.Buffer, error) {
	if err := checkOpaque(in, f); err != nil {
		return nil, err
	}
	var sum uint64
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			sum += uint64(in.Luminance(x, y))
		}
	}
	mean := float64(sum) / float64(in.Width*in.Height)

	out := in.Clone()
	for i := range out.Pix {
		out.Pix[i] = pixel.Clamp(mean + (float64(in.Pix[i])-mean)*f)
	}
	return out, nil
}

// scaleSaturation 以逐像素灰度为轴拉伸色彩
func scaleSaturation(in *pixel.Buffer, f float64) (*pixel.Buffer, error) {
	if err := checkOpaque(in, f); err != nil {
		return nil, err
	}
	out := in.Clone()
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			g := float64(in.Luminance(x, y))
			i := out.Offset(x, y)
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = pixel.Clamp(g + (float64(in.Pix[i+c])-g)*f)
			}
		}
	}
	return out, nil
}

// scaleSharpness 从轻度模糊的副本向外外推，f>1 即锐化
func scaleSharpness(in *pixel.Buffer, f float64) (*pixel.Buffer, error) {
	if err := checkOpaque(in, f); err != nil {
		return nil, err
	}
	smooth := imaging.Blur(in.ToNRGBA(), 0.8)
	out := in.Clone()
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			i := out.Offset(x, y)
			s := y*smooth.Stride + x*4
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = pixel.Clamp(float64(smooth.Pix[s+c]) + (float64(in.Pix[i+c])-float64(smooth.Pix[s+c]))*f)
			}
		}
	}
	return out, nil
}
