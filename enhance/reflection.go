package enhance

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/chaos-io/whitebg/pixel"
)

// ReduceReflections 压制镜面反光：灰度高于阈值的像素用整图高斯模糊后的
// 对应值替换（局部模糊修补），其余像素保持逐字节不变
func ReduceReflections(in *pixel.Buffer, opts Options) *pixel.Buffer {
	return degrade("reflection_reduce", in, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return reduceReflections(b, opts)
	})
}

func reduceReflections(in *pixel.Buffer, opts Options) (*pixel.Buffer, error) {
	if in.Channels != pixel.OpaqueChannels {
		return nil, fmt.Errorf("reflection reduce expects 3 channels, got %d", in.Channels)
	}
	k := opts.BlurKernel
	if k < 3 || k%2 == 0 {
		return nil, fmt.Errorf("blur kernel %d must be odd and >= 3", k)
	}

	// 核边长换 sigma，沿用 OpenCV 的经验式
	sigma := 0.3*((float64(k)-1)*0.5-1) + 0.8
	blurred := imaging.Blur(in.ToNRGBA(), sigma)

	out := in.Clone()
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			if in.Luminance(x, y) <= opts.HighlightThreshold {
				continue
			}
			i := out.Offset(x, y)
			s := y*blurred.Stride + x*4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = blurred.Pix[s], blurred.Pix[s+1], blurred.Pix[s+2]
		}
	}
	return out, nil
}
