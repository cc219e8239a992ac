package enhance

import (
	"fmt"

	"github.com/chaos-io/whitebg/pixel"
)

// White 标准摄影棚底色
var White = [3]uint8{255, 255, 255}

// CompositeOnBackdrop 把 RGBA 抠图按 alpha 加权压到不透明底色上（over 合成）
// 整数四舍五入保证 alpha=255 时逐字节还原前景
// 守卫：alpha 全零说明没检测到前景物体，返回 ErrNoObjectDetected，不产出结果
func CompositeOnBackdrop(fg *pixel.Buffer, backdrop [3]uint8) (*pixel.Buffer, error) {
	if fg.Channels != pixel.AlphaChannels {
		return nil, fmt.Errorf("composite expects 4 channels, got %d", fg.Channels)
	}

	empty := true
	for i := 3; i < len(fg.Pix); i += 4 {
		if fg.Pix[i] > 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil, ErrNoObjectDetected
	}

	out, err := pixel.New(fg.Width, fg.Height, pixel.OpaqueChannels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < fg.Height; y++ {
		for x := 0; x < fg.Width; x++ {
			s := fg.Offset(x, y)
			d := out.Offset(x, y)
			a := uint32(fg.Pix[s+3])
			for c := 0; c < 3; c++ {
				v := uint32(fg.Pix[s+c])*a + uint32(backdrop[c])*(255-a)
				out.Pix[d+c] = uint8((v + 127) / 255)
			}
		}
	}
	return out, nil
}
