package pixel

import (
	"fmt"
	"image"
	"image/draw"
)

// 通道数约定：1 = 掩码/灰度，3 = 不透明 RGB，4 = 带 alpha 的 RGBA
const (
	GrayChannels   = 1
	OpaqueChannels = 3
	AlphaChannels  = 4
)

// Buffer 行优先的像素缓冲，每通道 8 位，取值 [0,255]
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// Mask 单通道掩码，和源图同尺寸，0/255 二值或 0-255 连续 alpha
type Mask = Buffer

// New 分配一块全零缓冲
func New(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	switch channels {
	case GrayChannels, OpaqueChannels, AlphaChannels:
	default:
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Clone 深拷贝，阶段之间不共享底层数组
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// Offset 像素 (x,y) 第一个通道在 Pix 里的下标
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// FromImage 把任意解码结果转成 4 通道缓冲
func FromImage(img image.Image) *Buffer {
	src := toNRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	buf := &Buffer{Width: w, Height: h, Channels: AlphaChannels, Pix: make([]uint8, w*h*4)}
	for y := 0; y < h; y++ {
		copy(buf.Pix[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
	return buf
}

// ToNRGBA 导出为 image.NRGBA，1/3 通道分别展开为灰度/不透明像素
func (b *Buffer) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := b.Offset(x, y)
			o := y*dst.Stride + x*4
			switch b.Channels {
			case GrayChannels:
				v := b.Pix[i]
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3] = v, v, v, 255
			case OpaqueChannels:
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3] = b.Pix[i], b.Pix[i+1], b.Pix[i+2], 255
			default:
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3] = b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
			}
		}
	}
	return dst
}

// FromNRGBAOpaque 丢弃 alpha，只保留 RGB 三通道
func FromNRGBAOpaque(src *image.NRGBA) *Buffer {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	buf := &Buffer{Width: w, Height: h, Channels: OpaqueChannels, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := y*src.Stride + x*4
			d := (y*w + x) * 3
			buf.Pix[d], buf.Pix[d+1], buf.Pix[d+2] = src.Pix[s], src.Pix[s+1], src.Pix[s+2]
		}
	}
	return buf
}

// Luminance 0.299/0.587/0.114 加权灰度，3/4 通道通用
func (b *Buffer) Luminance(x, y int) uint8 {
	i := b.Offset(x, y)
	if b.Channels == GrayChannels {
		return b.Pix[i]
	}
	v := (299*uint32(b.Pix[i]) + 587*uint32(b.Pix[i+1]) + 114*uint32(b.Pix[i+2])) / 1000
	return uint8(v)
}

// Clamp 截断到 [0,255]
func Clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
