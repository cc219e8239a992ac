package enhance

import (
	"errors"
	"log/slog"

	"github.com/chaos-io/whitebg/pixel"
)

var (
	// ErrInvalidInput 输入字节无法解码成支持的图片格式
	ErrInvalidInput = errors.New("invalid input image")
	// ErrNoObjectDetected 分割结果里没有任何前景像素，跳过该图
	ErrNoObjectDetected = errors.New("no object detected")
)

// degrade 阶段内部出错时回退为恒等变换，管线绝不因此中断
// 诊断只给运维看（slog），不算批处理层面的错误
func degrade(stage string, in *pixel.Buffer, fn func(*pixel.Buffer) (*pixel.Buffer, error)) *pixel.Buffer {
	out, err := fn(in)
	if err != nil {
		slog.Warn("stage degraded to identity", "stage", stage, "error", err)
		return in
	}
	return out
}
