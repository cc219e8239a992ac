package enhance

import (
	"fmt"

	"github.com/chaos-io/whitebg/pixel"
)

// RefineEdges 清理分割输出的抠图边缘
//
//	包含掩码：alpha >= 1 视为前景
//	3x3 形态学闭运算（先膨胀后腐蚀），补 1 像素孔洞、抹平锯齿，不扩大轮廓
//	对掩码做一次近似恒等的 3x3 平滑，避免生硬边界
//	掩码外的像素四个通道全部清零；闭运算补进来的孔洞 alpha 置 255
//
// 内部出错时返回原图（恒等回退）
func RefineEdges(in *pixel.Buffer) *pixel.Buffer {
	return degrade("edge_refine", in, refineEdges)
}

func refineEdges(in *pixel.Buffer) (*pixel.Buffer, error) {
	if in.Channels != pixel.AlphaChannels {
		return nil, fmt.Errorf("edge refine expects 4 channels, got %d", in.Channels)
	}
	w, h := in.Width, in.Height

	mask := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if in.Pix[in.Offset(x, y)+3] >= 1 {
				mask[y*w+x] = 255
			}
		}
	}

	// 闭运算一次
	mask = erode3x3(dilate3x3(mask, w, h), w, h)
	mask = smoothMask(mask, w, h)

	out := in.Clone()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.Offset(x, y)
			if mask[y*w+x] == 0 {
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 0, 0, 0, 0
				continue
			}
			// 被闭运算填上的孔洞原本 alpha 为 0，补成完全不透明
			if out.Pix[i+3] == 0 {
				out.Pix[i+3] = 255
			}
		}
	}
	return out, nil
}

func dilate3x3(mask []uint8, w, h int) []uint8 {
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if mask[ny*w+nx] == 255 {
						out[y*w+x] = 255
					}
				}
			}
		}
	}
	return out
}

func erode3x3(mask []uint8, w, h int) []uint8 {
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue // 边界不参与腐蚀，轮廓不被削掉
					}
					if mask[ny*w+nx] == 0 {
						v = 0
					}
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}

// smoothMask 3x3 二项式模糊后重新二值化，近似恒等，只软化毛边
func smoothMask(mask []uint8, w, h int) []uint8 {
	k := [3][3]int{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, weight := 0, 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					kv := k[dy+1][dx+1]
					sum += int(mask[ny*w+nx]) * kv
					weight += kv
				}
			}
			if sum >= weight*128 {
				out[y*w+x] = 255
			}
		}
	}
	return out
}
