package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/chaos-io/whitebg/enhance"
	"github.com/chaos-io/whitebg/util"
)

// 接受的输入扩展名（不区分大小写），其余文件直接忽略
var acceptedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
}

// Result 一次批处理的结果统计
type Result struct {
	Processed int // 成功写出
	NoObject  int // 分割结果没有前景，跳过
	Invalid   int // 解码失败或不支持的内容，跳过
	Failed    int // 其他写出失败
}

// Runner 目录级批处理：扫输入目录，按 worker 数并行跑管线，
// 每个 worker 认领不同文件、写不同输出文件，彼此无须同步
type Runner struct {
	Pipeline *enhance.Pipeline
	Workers  int
}

func NewRunner(p *enhance.Pipeline, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{Pipeline: p, Workers: workers}
}

// OutputName 输入 name.ext 对应的输出文件名
func OutputName(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return "white_bg_" + stem + ".jpg"
}

// Accepted 扩展名是否在支持列表里
func Accepted(path string) bool {
	return acceptedExts[strings.ToLower(filepath.Ext(path))]
}

// Run 处理 inputDir 下的所有支持图片，输出到 outputDir
// 输入目录读不了是整批致命错误；单张图的问题只跳过那一张
// ctx 取消后停止派发新图，在跑的图会跑完
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	defer util.Trace("batch run")()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !Accepted(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	slog.Info("batch started", "input", inputDir, "candidates", len(candidates), "workers", r.Workers)

	jobs := make(chan string)
	var mu sync.Mutex
	res := &Result{}

	var wg sync.WaitGroup
	for i := 0; i < r.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				outcome := r.processOne(ctx, filepath.Join(inputDir, name), filepath.Join(outputDir, OutputName(name)))
				mu.Lock()
				switch outcome {
				case outcomeOK:
					res.Processed++
				case outcomeNoObject:
					res.NoObject++
				case outcomeInvalid:
					res.Invalid++
				default:
					res.Failed++
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, name := range candidates {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- name:
		}
	}
	close(jobs)
	wg.Wait()

	slog.Info("batch finished",
		"processed", res.Processed,
		"no_object", res.NoObject,
		"invalid", res.Invalid,
		"failed", res.Failed)
	return res, nil
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeNoObject
	outcomeInvalid
	outcomeFailed
)

func (r *Runner) processOne(ctx context.Context, inPath, outPath string) outcome {
	input, err := os.ReadFile(inPath)
	if err != nil {
		slog.Warn("skip unreadable input", "path", inPath, "error", err)
		return outcomeInvalid
	}

	output, err := r.Pipeline.Process(ctx, input)
	switch {
	case errors.Is(err, enhance.ErrNoObjectDetected):
		slog.Info("no foreground object, skipped", "path", inPath)
		return outcomeNoObject
	case errors.Is(err, enhance.ErrInvalidInput):
		slog.Warn("invalid input, skipped", "path", inPath, "error", err)
		return outcomeInvalid
	case err != nil:
		slog.Error("process failed", "path", inPath, "error", err)
		return outcomeFailed
	}

	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		slog.Error("write output failed", "path", outPath, "error", err)
		return outcomeFailed
	}

	slog.Info("image done", "input", inPath, "output", outPath)
	return outcomeOK
}
