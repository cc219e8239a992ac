package enhance

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chaos-io/whitebg/pixel"
)

// CorrectShadows 展平局部光照：亮度通道做限幅局部直方图均衡（CLAHE），
// 色度不动，最后按 blend 比例与原图线性混合，避免把立体感磨平
// 出错（比如图比瓦片网格还小）时返回原图
func CorrectShadows(in *pixel.Buffer, opts Options) *pixel.Buffer {
	return degrade("shadow_correct", in, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return correctShadows(b, opts)
	})
}

func correctShadows(in *pixel.Buffer, opts Options) (*pixel.Buffer, error) {
	if in.Channels != pixel.OpaqueChannels {
		return nil, fmt.Errorf("shadow correct expects 3 channels, got %d", in.Channels)
	}
	tiles := opts.ShadowTiles
	if tiles < 2 {
		return nil, fmt.Errorf("tile grid %d too small", tiles)
	}
	w, h := in.Width, in.Height
	if w < tiles || h < tiles {
		return nil, fmt.Errorf("image %dx%d smaller than %dx%d tile grid", w, h, tiles, tiles)
	}

	// 拆成亮度 + 两个光照不变的色度通道
	yp := make([]uint8, w*h)
	cb := make([]uint8, w*h)
	cr := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := in.Offset(x, y)
			yp[y*w+x], cb[y*w+x], cr[y*w+x] = color.RGBToYCbCr(in.Pix[i], in.Pix[i+1], in.Pix[i+2])
		}
	}

	eq := clahe(yp, w, h, tiles, opts.ShadowClipLimit)

	blend := opts.ShadowBlend
	out := in.Clone()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			j := y*w + x
			r, g, b := color.YCbCrToRGB(eq[j], cb[j], cr[j])
			i := out.Offset(x, y)
			out.Pix[i] = pixel.Clamp(blend*float64(r) + (1-blend)*float64(in.Pix[i]))
			out.Pix[i+1] = pixel.Clamp(blend*float64(g) + (1-blend)*float64(in.Pix[i+1]))
			out.Pix[i+2] = pixel.Clamp(blend*float64(b) + (1-blend)*float64(in.Pix[i+2]))
		}
	}
	return out, nil
}

// clahe 固定网格的限幅自适应直方图均衡
// 每块瓦片：直方图按 clip*均匀高度 截断，截掉的计数均摊回所有灰阶，
// 再由 CDF 生成查找表；逐像素在四个最近瓦片的查找表之间双线性插值
func clahe(src []uint8, w, h, tiles int, clip float64) []uint8 {
	// 瓦片边界均匀切分，宽高不被 tiles 整除时各瓦片最多差一个像素，
	// 任何尺寸下都不会出现空瓦片
	luts := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		y0, y1 := ty*h/tiles, (ty+1)*h/tiles
		for tx := 0; tx < tiles; tx++ {
			x0, x1 := tx*w/tiles, (tx+1)*w/tiles
			area := (x1 - x0) * (y1 - y0)

			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[src[y*w+x]]++
				}
			}

			limit := int(clip * float64(area) / 256.0)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for v := 0; v < 256; v++ {
				if hist[v] > limit {
					excess += hist[v] - limit
					hist[v] = limit
				}
			}
			// 截掉的部分均摊回所有灰阶，余数按步长散开，避免堆在低灰阶
			share, rem := excess/256, excess%256
			for v := 0; v < 256; v++ {
				hist[v] += share
			}
			if rem > 0 {
				step := 256 / rem
				if step < 1 {
					step = 1
				}
				for v := 0; v < 256 && rem > 0; v += step {
					hist[v]++
					rem--
				}
			}

			cdf := 0
			scale := 255.0 / float64(area)
			for v := 0; v < 256; v++ {
				cdf += hist[v]
				luts[ty*tiles+tx][v] = pixel.Clamp(float64(cdf) * scale)
			}
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		gy := (float64(y)+0.5)*float64(tiles)/float64(h) - 0.5
		ty0 := int(math.Floor(gy))
		fy := gy - float64(ty0)
		ty1 := clampTile(ty0+1, tiles)
		ty0 = clampTile(ty0, tiles)
		for x := 0; x < w; x++ {
			gx := (float64(x)+0.5)*float64(tiles)/float64(w) - 0.5
			tx0 := int(math.Floor(gx))
			fx := gx - float64(tx0)
			tx1 := clampTile(tx0+1, tiles)
			tx0 = clampTile(tx0, tiles)

			v := src[y*w+x]
			top := (1-fx)*float64(luts[ty0*tiles+tx0][v]) + fx*float64(luts[ty0*tiles+tx1][v])
			bot := (1-fx)*float64(luts[ty1*tiles+tx0][v]) + fx*float64(luts[ty1*tiles+tx1][v])
			out[y*w+x] = pixel.Clamp((1-fy)*top + fy*bot)
		}
	}
	return out
}

func clampTile(t, tiles int) int {
	if t < 0 {
		return 0
	}
	if t >= tiles {
		return tiles - 1
	}
	return t
}
