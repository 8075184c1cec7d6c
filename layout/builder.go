package layout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/boxyfit/binding"
	"github.com/ByLCY/boxyfit/dsl"
	"github.com/ByLCY/boxyfit/fit"
)

// Build 根据 DSL AST 创建渲染面上的元素，逐个完成字号适配并生成可绘制的文本框。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	section := doc.Canvas()
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 canvas 段落")
	}
	canvas, err := resolveCanvas(section.Params)
	if err != nil {
		return nil, err
	}

	b := &boxBuilder{
		canvas:  canvas,
		res:     res,
		data:    data,
		opts:    opts,
		logger:  logger,
		surface: NewSurface(opts.Typesetter, logger),
	}
	// 目前只有 box 一种绘制命令，其余命令忽略
	var boxes []TextBox
	for _, cmd := range section.Block.Commands("box") {
		tb, err := b.build(cmd, len(boxes))
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, tb)
	}

	return &Result{
		Canvas:    canvas,
		Boxes:     boxes,
		Resources: res,
		Meta:      collectMeta(doc),
	}, nil
}

type boxBuilder struct {
	canvas  Canvas
	res     ResourceSet
	data    any
	opts    BuildOptions
	logger  *slog.Logger
	surface *Surface
}

// build 处理一条 box 命令：
//
//	box <style> id <id> x <len> y <len> width <len> height <len> [padding <len>]
//	    [size <len>] [line-height <lh>] [min <n>] [max <n>] [fit-width <len>] [fit-height <len>]
//	    [fit-line-height <n>] [wrapper <class>] [align left|center|right] [wrap <mode>] [color <c>] [outline <c>]
//	    { "text" }
func (b *boxBuilder) build(cmd *dsl.Command, index int) (TextBox, error) {
	style, attrs := cmd.Attrs(true)
	attrs = boxAttributes(style, attrs, b.res.Styles)

	id := attrs["id"]
	if id == "" {
		id = fmt.Sprintf("box%d", index+1)
	}
	content := binding.Interpolate(cmd.Block.Text(), b.data)
	if content == "" {
		return TextBox{}, fmt.Errorf("box %s 缺少文本内容", id)
	}

	fontName := attrs["font"]
	if fontName == "" {
		fontName = style
	}
	font, err := lookupFont(fontName, b.res)
	if err != nil {
		return TextBox{}, fmt.Errorf("box %s: %w", id, err)
	}

	areaW := b.canvas.Width - 2*b.canvas.Margin
	areaH := b.canvas.Height - 2*b.canvas.Margin
	padding := math.Max(ParsePX(attrs["padding"], areaW), 0)
	outerW := ParsePX(attrs["width"], areaW)
	outerH := ParsePX(attrs["height"], areaH)

	el := NewElement(id, content)
	el.Font = font
	el.Padding = padding
	el.Width = contentLength(outerW, padding)
	el.Height = contentLength(outerH, padding)
	if size := ParsePX(attrs["size"], float64(DefaultFontSize)); size >= 1 {
		el.FontSize = int(math.Round(size))
	}
	el.LineHeight = ComputedLineHeight(attrs["line-height"])
	el.Wrap = normalizeWrap(attrs["wrap"])

	boxOpts, err := parseFitOptions(attrs, areaW, areaH)
	if err != nil {
		return TextBox{}, fmt.Errorf("box %s: %w", id, err)
	}
	merged := fit.Merge(fit.Merge(boxOpts, b.opts.Defaults), fit.DefaultOptions())

	result, _, err := b.surface.Attach(el, merged)
	if err != nil {
		return TextBox{}, err
	}
	child := el.Child(merged.WrapperClass)
	lines, err := b.surface.Lines(child)
	if err != nil {
		return TextBox{}, err
	}
	box := b.surface.OuterBox(el)

	tb := TextBox{
		ID:         id,
		Content:    content,
		X:          b.canvas.Margin + ParsePX(attrs["x"], areaW),
		Y:          b.canvas.Margin + ParsePX(attrs["y"], areaH),
		Width:      box.Width,
		Height:     box.Height,
		Padding:    padding,
		Font:       font.Name,
		FontSize:   child.FontSize,
		LineHeight: result.Target.LineHeight,
		Color:      lookupColor(attrs["color"], b.res),
		Align:      normalizeAlign(attrs["align"]),
		Wrap:       el.Wrap,
		Lines:      lines,
		Overflow:   !result.Fits(),
	}
	if v := attrs["outline"]; v != "" || b.opts.Outline {
		c := lookupColor(v, b.res)
		tb.Outline = &c
	}
	if b.opts.Debug.Fit {
		tb.Debug = newFitDebug(result)
	}

	level := slog.LevelDebug
	if tb.Overflow {
		level = slog.LevelWarn
	}
	b.logger.Log(context.Background(), level, "box fitted",
		slog.String("box", id),
		slog.Int("from", result.Initial.FontSize),
		slog.Int("fontSize", tb.FontSize),
		slog.String("reason", result.Reason.String()),
		slog.Bool("overflow", tb.Overflow))
	return tb, nil
}

// parseFitOptions 读取 box 上的适配参数；未出现的参数保持未设置，交给默认值补齐。
func parseFitOptions(attrs map[string]string, areaW, areaH float64) (fit.Options, error) {
	var opts fit.Options
	if v := attrs["min"]; v != "" {
		n, err := parseFontBound(v)
		if err != nil {
			return opts, fmt.Errorf("min %w", err)
		}
		opts.MinFontSize = n
	}
	if v := attrs["max"]; v != "" {
		n, err := parseFontBound(v)
		if err != nil {
			return opts, fmt.Errorf("max %w", err)
		}
		opts.MaxFontSize = fit.Int(n)
	}
	if v := attrs["fit-width"]; v != "" {
		opts.Width = fit.Float(ParsePX(v, areaW))
	}
	if v := attrs["fit-height"]; v != "" {
		opts.Height = fit.Float(ParsePX(v, areaH))
	}
	if v := attrs["fit-line-height"]; v != "" {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil {
			return opts, fmt.Errorf("fit-line-height %s 无法解析: %w", v, err)
		}
		opts.LineHeight = fit.Float(f)
	}
	opts.WrapperClass = attrs["wrapper"]
	return opts, nil
}

// parseFontBound 解析字号上下限，允许写成 12 或 12px。
func parseFontBound(v string) (int, error) {
	l := ParseRawLengthStr(v)
	if l.Unit == UnitPercent || (l.IsZero() && strings.TrimSpace(strings.TrimSuffix(v, "px")) != "0") {
		return 0, fmt.Errorf("字号 %s 无法解析", v)
	}
	return int(math.Round(l.ToPX(0))), nil
}

// resolveCanvas 解析 `canvas <width> <height> [margin <len>]`。
func resolveCanvas(params []*dsl.Lexeme) (Canvas, error) {
	var sizes []float64
	var canvas Canvas
	for i := 0; i < len(params); i++ {
		p := params[i]
		if strings.EqualFold(p.Value, "margin") {
			if i+1 < len(params) {
				canvas.Margin = math.Max(ParsePX(params[i+1].Value, 0), 0)
				i++
			}
			continue
		}
		if px := ParsePX(p.Value, 0); px > 0 {
			sizes = append(sizes, px)
		}
	}
	if len(sizes) < 2 {
		return Canvas{}, fmt.Errorf("canvas 需要宽度与高度，例如 canvas 800px 600px")
	}
	canvas.Width, canvas.Height = sizes[0], sizes[1]
	if 2*canvas.Margin >= math.Min(canvas.Width, canvas.Height) {
		return Canvas{}, fmt.Errorf("canvas 留白 %gpx 超过画布尺寸", canvas.Margin)
	}
	return canvas, nil
}

func contentLength(outer, padding float64) float64 {
	if outer <= 0 {
		return 0
	}
	return math.Max(outer-2*padding, 1)
}

func normalizeWrap(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "break-word", "word-break:break-word":
		return "break-word"
	case "nowrap", "no-wrap":
		return "nowrap"
	default:
		return "anywhere"
	}
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return "center"
	case "right", "end":
		return "right"
	default:
		return ""
	}
}
