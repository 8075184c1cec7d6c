package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ByLCY/boxyfit/config"
	"github.com/ByLCY/boxyfit/dsl"
	"github.com/ByLCY/boxyfit/layout"
	"github.com/ByLCY/boxyfit/renderer"
	canvasrenderer "github.com/ByLCY/boxyfit/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.boxy", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "输出文件路径")
	format := flag.String("format", "", "输出格式 pdf 或 svg，默认取配置文件，其次为 pdf")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	profilePath := flag.String("profile", "", "适配配置文件（.yaml/.yml/.toml）")
	watchMode := flag.Bool("watch", false, "监听输入文件，变更后重新生成")
	verbose := flag.Bool("v", false, "输出每一步适配的调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	var profile config.Profile
	if *profilePath != "" {
		p, err := config.Load(*profilePath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		profile = p
	}
	if *format != "" {
		profile.Format = *format
	}
	outFormat, err := canvasrenderer.ParseFormat(profile.Format)
	if err != nil {
		log.Fatalf("%v", err)
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(*input),
		Format:  outFormat,
	})
	j := job{
		input:     *input,
		output:    *output,
		debugPath: *debug,
		data:      inputData,
		build: layout.BuildOptions{
			Defaults: profile.FitOptions(),
			Outline:  profile.Outline,
			Logger:   logger,
			Debug:    layout.DebugOptions{Fit: profile.DebugFit || *debug != ""},
		},
	}

	if err := run(j, r); err != nil {
		if !*watchMode {
			log.Fatalf("生成 %s 失败: %v", outFormat, err)
		}
		logger.Error("生成失败", slog.Any("err", err))
	} else {
		fmt.Printf("已生成 %s：%s\n", outFormat, *output)
	}
	if !*watchMode {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = watch(ctx, *input, logger, func() error {
		if err := run(j, r); err != nil {
			return err
		}
		logger.Info("已重新生成", slog.String("out", *output))
		return nil
	})
	if err != nil {
		log.Fatalf("监听 %s 失败: %v", *input, err)
	}
}

// job 描述一次从 DSL 到输出文件的完整生成。
type job struct {
	input     string
	output    string
	debugPath string
	data      any
	build     layout.BuildOptions
}

// run 串联解析、适配与渲染。renderer 同时充当排版后端。
func run(j job, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	doc, err := dsl.ParseFile(j.input)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	ts, ok := r.(layout.Typesetter)
	if !ok {
		return fmt.Errorf("renderer 未实现排版接口")
	}
	opts := j.build
	opts.Typesetter = ts
	result, err := layout.Build(doc, j.data, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if j.debugPath != "" {
		if err := writeDebug(result, j.debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(j.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
