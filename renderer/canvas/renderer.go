package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"maps"
	"slices"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/boxyfit/layout"
	"github.com/ByLCY/boxyfit/renderer"
)

// outlineWidth 是文本框边框的线宽（mm）。
const outlineWidth = 0.2

// measureColor 仅用于测量，不影响绘制颜色。
var measureColor = layout.Color{R: 30, G: 30, B: 30}

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// ParseFormat 解析输出格式，空串视为 PDF。
func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可选 pdf、svg）", v)
	}
}

// Renderer measures text for the layout stage and draws fitted boxes via
// github.com/tdewolff/canvas. Both sides share one font cache so that a box is
// drawn with exactly the metrics it was fitted with.
type Renderer struct {
	format Format
	fonts  *fontCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string              // 相对字体路径的根目录
	Format  Format              // 默认 PDF
	Fonts   map[string]Resource // 通过 builtin:<name> 引用的注入字体
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts, output format and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	return &Renderer{format: format, fonts: newFontCache(opts.BaseDir, opts.Fonts)}
}

// Format 返回渲染器的输出格式。
func (r *Renderer) Format() Format { return r.format }

// LayoutLines 实现 layout.Typesetter。width、fontSize 与返回的行宽均为 mm；字体系统使用 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fonts.face(font, ptFromMm(fontSize), measureColor)
	if err != nil {
		return nil, err
	}
	return breakLines(content, width, face, wrap), nil
}

// Render 把布局结果绘制到一张画布上并编码为 PDF 或 SVG。布局单位为 px，canvas 使用 mm。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Canvas.Width <= 0 || result.Canvas.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", result.Canvas.Width, result.Canvas.Height)
	}

	w, h := mmFromPx(result.Canvas.Width), mmFromPx(result.Canvas.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局一致

	for _, tb := range result.Boxes {
		if err := r.drawBox(ctx, tb, pickFont(tb.Font, result.Resources.Fonts)); err != nil {
			return nil, fmt.Errorf("绘制文本框 %s 失败: %w", tb.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := r.encode(&buf, c, w, h, result.Meta); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) encode(buf *bytes.Buffer, c *canvas.Canvas, w, h float64, meta layout.DocumentMeta) error {
	if r.format == FormatSVG {
		out := svg.New(buf, w, h, nil)
		c.RenderTo(out)
		if err := out.Close(); err != nil {
			return fmt.Errorf("写入 SVG 失败: %w", err)
		}
		return nil
	}
	out := pdf.New(buf, w, h, nil)
	out.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	c.RenderTo(out)
	if err := out.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// drawBox 绘制可选的外框，然后在内容区逐行绘制文本。
// 行高按 CSS 规则处理：行高减去字形高度的余量平分到上下两侧。
func (r *Renderer) drawBox(ctx *canvas.Context, tb layout.TextBox, font layout.FontResource) error {
	x, y := mmFromPx(tb.X), mmFromPx(tb.Y)
	if tb.Outline != nil {
		ctx.SetFillColor(color.RGBA{})
		ctx.SetStrokeColor(rgb(*tb.Outline))
		ctx.SetStrokeWidth(outlineWidth)
		ctx.DrawPath(x, y, canvas.Rectangle(mmFromPx(tb.Width), mmFromPx(tb.Height)))
	}
	if tb.FontSize <= 0 {
		return nil
	}

	size := mmFromPx(float64(tb.FontSize))
	face, err := r.fonts.face(font, ptFromMm(size), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content}}
	}

	pad := mmFromPx(tb.Padding)
	left := x + pad
	inner := mmFromPx(tb.Width) - 2*pad
	align, anchor := canvas.Left, left
	switch tb.Align {
	case "center":
		align, anchor = canvas.Center, left+inner/2
	case "right":
		align, anchor = canvas.Right, left+inner
	}

	lineHeight := size * tb.LineHeight
	if lineHeight <= 0 {
		lineHeight = size * 1.2
	}
	m := face.Metrics()
	baseline := y + pad + (lineHeight-(m.Ascent+m.Descent))/2 + m.Ascent
	for _, line := range lines {
		if line.Content != "" {
			ctx.DrawText(anchor, baseline, canvas.NewTextLine(face, line.Content, align))
		}
		baseline += lineHeight
	}
	return nil
}

// pickFont 按名称取字体，找不到时依次退回 Body、名称最小的已声明字体与内置默认字体。
func pickFont(name string, fonts map[string]layout.FontResource) layout.FontResource {
	for _, key := range []string{name, "Body"} {
		if font, ok := fonts[key]; ok {
			return font
		}
	}
	if names := slices.Sorted(maps.Keys(fonts)); len(names) > 0 {
		return fonts[names[0]]
	}
	return layout.FontResource{Name: "Body", Src: layout.DefaultFontSrc}
}

func rgb(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func ptFromMm(mm float64) float64 { return mm * layout.MmToPt }

func mmFromPx(px float64) float64 { return px * layout.PxToMm }
