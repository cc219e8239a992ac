package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/chaos-io/whitebg/batch"
	"github.com/chaos-io/whitebg/enhance"
	"github.com/chaos-io/whitebg/enhance/segment"
	"github.com/chaos-io/whitebg/server"
)

func main() {
	inputDir := flag.String("input", "./input", "输入图片目录")
	outputDir := flag.String("output", "./output", "输出目录")
	workers := flag.Int("workers", 0, "并行 worker 数，0 = GOMAXPROCS")
	segmentURL := flag.String("segment-url", "", "分割服务地址，留空则直通（输入需自带 alpha）")
	serveAddr := flag.String("serve", "", "以 HTTP 服务方式运行，如 :8080")
	watchSpec := flag.String("watch", "", "cron 表达式，按计划反复跑批处理，如 @every 5m")
	verbose := flag.Bool("v", false, "输出 debug 日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var seg segment.Segmenter = segment.NewPassthrough()
	if *segmentURL != "" {
		seg = segment.NewBiRefNet(*segmentURL)
	}
	pipeline := enhance.NewPipeline(seg, enhance.DefaultOptions())

	if *serveAddr != "" {
		srv := server.New(pipeline)
		if err := srv.Run(*serveAddr); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	runner := batch.NewRunner(pipeline, *workers)
	runBatch := func() {
		if _, err := runner.Run(context.Background(), *inputDir, *outputDir); err != nil {
			slog.Error("batch failed", "error", err)
		}
	}

	// watch 模式：盯一个投递目录，按计划反复处理
	if *watchSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(*watchSpec, runBatch); err != nil {
			slog.Error("invalid cron spec", "spec", *watchSpec, "error", err)
			os.Exit(1)
		}
		runBatch()
		c.Run()
		return
	}

	if _, err := runner.Run(context.Background(), *inputDir, *outputDir); err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}
}
