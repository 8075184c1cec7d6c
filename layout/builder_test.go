package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/boxyfit/dsl"
	"github.com/ByLCY/boxyfit/fit"
)

const cardDSL = `doc Card v1 {
  meta {
    title: "Card"
  }
  resources {
    font Body { src: "embed:lmsans10-regular" }
    color Ink = #112233
    style Title { font: Body; size: 10px; line-height: 1x }
  }
  canvas 400px 300px margin 10px {
    box Title id headline x 0 y 0 width 100px height 40px max 30 align center { "Hi ${name}" }
    box Title id note x 0 y 50px width 42px height 100px size 20px min 15 color Ink { "abcdefgh" }
  }
}`

// buildDoc 是测试辅助：用 stubTypesetter 构建 DSL 文本。
func buildDoc(t *testing.T, text string, data any, opts BuildOptions) *Result {
	t.Helper()
	doc, err := dsl.ParseString(text)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if opts.Typesetter == nil {
		opts.Typesetter = &stubTypesetter{}
	}
	res, err := Build(doc, data, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

func TestBuildFitsBoxes(t *testing.T) {
	res := buildDoc(t, cardDSL, map[string]any{"name": "Bo"}, BuildOptions{})

	if res.Canvas.Width != 400 || res.Canvas.Height != 300 || res.Canvas.Margin != 10 {
		t.Fatalf("画布解析错误: %+v", res.Canvas)
	}
	if res.Meta.Title != "Card" || res.Meta.Creator != "boxyfit" {
		t.Fatalf("元信息错误: %+v", res.Meta)
	}
	if len(res.Boxes) != 2 {
		t.Fatalf("期望 2 个文本框，实际 %d", len(res.Boxes))
	}

	head := res.Boxes[0]
	if head.ID != "headline" || head.Content != "Hi Bo" {
		t.Fatalf("文本框内容错误: %s %q", head.ID, head.Content)
	}
	if head.FontSize != 30 {
		t.Fatalf("期望放大到最大字号 30，实际 %d", head.FontSize)
	}
	if head.Overflow {
		t.Fatalf("headline 不应溢出")
	}
	if head.X != 10 || head.Y != 10 || head.Width != 100 || head.Height != 40 {
		t.Fatalf("外框位置错误: %+v", head)
	}
	if head.Align != "center" || head.LineHeight != 1 {
		t.Fatalf("对齐或行高错误: %q %v", head.Align, head.LineHeight)
	}
	if len(head.Lines) != 1 || head.Lines[0].Content != "Hi Bo" {
		t.Fatalf("排版行错误: %+v", head.Lines)
	}

	note := res.Boxes[1]
	if note.FontSize != 15 || !note.Overflow {
		t.Fatalf("期望停在最小字号 15 且溢出，实际 %d overflow=%v", note.FontSize, note.Overflow)
	}
	if note.Y != 60 {
		t.Fatalf("y 应加上画布留白，实际 %v", note.Y)
	}
	if note.Color != (Color{R: 0x11, G: 0x22, B: 0x33}) {
		t.Fatalf("颜色应引用资源 Ink，实际 %+v", note.Color)
	}
	if note.Outline != nil || note.Debug != nil {
		t.Fatalf("未开启时不应输出边框或调试信息")
	}
}

func TestBuildDefaultsAndDebug(t *testing.T) {
	opts := BuildOptions{
		Defaults: fit.Options{MaxFontSize: fit.Int(12)},
		Outline:  true,
		Debug:    DebugOptions{Fit: true},
	}
	res := buildDoc(t, cardDSL, map[string]any{"name": "Bo"}, opts)

	head := res.Boxes[0]
	// box 自身的 max 30 优先于全局默认值
	if head.FontSize != 30 {
		t.Fatalf("box 参数应覆盖默认值，实际 %d", head.FontSize)
	}
	if head.Outline == nil {
		t.Fatalf("Outline 开启后应输出边框")
	}
	if head.Debug == nil || head.Debug.Reason != "max-reached" || head.Debug.Start != "smaller" {
		t.Fatalf("调试信息错误: %+v", head.Debug)
	}
	if head.Debug.TargetWidth != 100 || head.Debug.TargetHeight != 40 || head.Debug.From != 10 {
		t.Fatalf("调试目标尺寸错误: %+v", head.Debug)
	}
}

func TestBuildFitOptionsOverrideBox(t *testing.T) {
	text := `doc T v1 {
  canvas 400px 300px {
    box Body id a width 200px height 100px fit-width 60px fit-height 50px fit-line-height 1.5x wrapper inner { "abcd" }
  }
}`
	res := buildDoc(t, text, nil, BuildOptions{Debug: DebugOptions{Fit: true}})
	box := res.Boxes[0]
	if box.Debug.TargetWidth != 60 || box.Debug.TargetHeight != 50 {
		t.Fatalf("fit-width/fit-height 应替代外框尺寸: %+v", box.Debug)
	}
	if box.LineHeight != 1.5 {
		t.Fatalf("期望行高 1.5，实际 %v", box.LineHeight)
	}
	// 宽 2f 在 30 时恰为 60，浮点误差下可能退回 29
	if box.FontSize < 29 || box.FontSize > 30 {
		t.Fatalf("字号超出预期范围: %d", box.FontSize)
	}
	if box.Font != "Body" {
		t.Fatalf("未声明字体时应使用默认 Body，实际 %q", box.Font)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"缺少画布", `doc T v1 { meta { title: "x" } }`, "canvas"},
		{"画布尺寸", `doc T v1 { canvas 400px { } }`, "canvas"},
		{"空内容", `doc T v1 { canvas 400px 300px { box Body id empty width 10px height 10px { } } }`, "empty"},
		{"错误字号", `doc T v1 { canvas 400px 300px { box Body id a min big { "x" } } }`, "min"},
		{"样式循环", `doc T v1 { resources { style A extends B { size: 1px }; style B extends A { size: 2px } } canvas 10px 10px { } }`, "循环"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := dsl.ParseString(tc.text)
			if err != nil {
				t.Fatalf("解析 DSL 失败: %v", err)
			}
			_, err = Build(doc, nil, BuildOptions{Typesetter: &stubTypesetter{}})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("期望错误包含 %q，实际 %v", tc.want, err)
			}
		})
	}

	if _, err := Build(&dsl.Document{}, nil, BuildOptions{}); err == nil {
		t.Fatalf("缺少 Typesetter 时应报错")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res := buildDoc(t, cardDSL, map[string]any{"name": "Bo"}, BuildOptions{Debug: DebugOptions{Fit: true}})
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写出调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var decoded struct {
		Boxes []struct {
			ID    string `json:"id"`
			Debug struct {
				Reason string `json:"reason"`
			} `json:"debug"`
		} `json:"boxes"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if len(decoded.Boxes) != 2 || decoded.Boxes[1].Debug.Reason != "min-reached" {
		t.Fatalf("调试 JSON 内容错误: %s", data)
	}
}
