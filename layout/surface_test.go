package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/boxyfit/fit"
)

func newBox(id, content string, width, height float64) *Element {
	el := NewElement(id, content)
	el.Font = FontResource{Name: "Body"}
	el.FontSize = 10
	el.LineHeight = "1"
	el.Width = width
	el.Height = height
	return el
}

func TestSurfaceAttachGrows(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcd", 100, 40)

	res, attached, err := s.Attach(el, fit.Options{})
	if err != nil {
		t.Fatalf("适配失败: %v", err)
	}
	if !attached {
		t.Fatalf("首次适配应返回 attached=true")
	}
	if res.Reason != fit.ReasonOvershoot {
		t.Fatalf("期望 overshoot，实际 %s", res.Reason)
	}
	child := el.Child(fit.DefaultWrapperClass)
	if child == nil {
		t.Fatalf("缺少测量子节点")
	}
	if child.FontSize != 40 {
		t.Fatalf("期望字号 40，实际 %d", child.FontSize)
	}
	if res.Final.Height != 40 {
		t.Fatalf("期望高度 40，实际 %v", res.Final.Height)
	}
	if el.Content != "" || child.Content != "abcd" {
		t.Fatalf("内容应移入子节点: outer=%q child=%q", el.Content, child.Content)
	}
	if el.FontSize != 10 {
		t.Fatalf("外层字号不应被修改，实际 %d", el.FontSize)
	}
}

func TestSurfaceAttachShrinks(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcdefgh", 42, 100)
	el.FontSize = 20

	res, _, err := s.Attach(el, fit.Options{})
	if err != nil {
		t.Fatalf("适配失败: %v", err)
	}
	if res.Reason != fit.ReasonFitted || res.Final.FontSize != 10 {
		t.Fatalf("期望缩小到 10，实际 %d (%s)", res.Final.FontSize, res.Reason)
	}
	if !res.Fits() {
		t.Fatalf("缩小后应能放下: %+v", res.Final)
	}
}

func TestSurfaceAttachStopsAtMin(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcdefgh", 42, 100)
	el.FontSize = 20

	res, _, err := s.Attach(el, fit.Options{MinFontSize: 15})
	if err != nil {
		t.Fatalf("适配失败: %v", err)
	}
	if res.Reason != fit.ReasonMinReached || res.Final.FontSize != 15 {
		t.Fatalf("期望停在最小字号 15，实际 %d (%s)", res.Final.FontSize, res.Reason)
	}
	if res.Fits() {
		t.Fatalf("最小字号下仍超出，Fits 应为 false")
	}
}

func TestSurfaceAttachIsIdempotent(t *testing.T) {
	ts := &stubTypesetter{}
	s := NewSurface(ts, nil)
	el := newBox("a", "abcd", 100, 40)

	if _, _, err := s.Attach(el, fit.Options{}); err != nil {
		t.Fatalf("适配失败: %v", err)
	}
	calls := ts.calls
	size := el.Child(fit.DefaultWrapperClass).FontSize

	_, attached, err := s.Attach(el, fit.Options{MaxFontSize: fit.Int(12)})
	if err != nil {
		t.Fatalf("重复适配不应报错: %v", err)
	}
	if attached {
		t.Fatalf("重复适配应返回 attached=false")
	}
	if ts.calls != calls {
		t.Fatalf("重复适配不应重新排版: %d -> %d", calls, ts.calls)
	}
	if got := el.Child(fit.DefaultWrapperClass).FontSize; got != size {
		t.Fatalf("重复适配修改了字号: %d -> %d", size, got)
	}
	if len(el.Children) != 1 {
		t.Fatalf("期望 1 个子节点，实际 %d", len(el.Children))
	}
	if !s.Fitted(el) {
		t.Fatalf("Fitted 应为 true")
	}
}

func TestSurfaceRefitReusesWrapper(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcd", 100, 40)
	if _, _, err := s.Attach(el, fit.Options{}); err != nil {
		t.Fatalf("适配失败: %v", err)
	}

	el.Height = 20
	res, err := s.Refit(el, fit.Options{})
	if err != nil {
		t.Fatalf("重新适配失败: %v", err)
	}
	if res.Start != fit.Larger || res.Final.FontSize != 20 {
		t.Fatalf("期望从 larger 缩小到 20，实际 %s -> %d", res.Start, res.Final.FontSize)
	}
	if len(el.Children) != 1 {
		t.Fatalf("重新适配应复用测量子节点，实际 %d 个", len(el.Children))
	}
}

func TestSurfaceRefitPicksUpNewContent(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcd", 100, 40)
	if _, _, err := s.Attach(el, fit.Options{}); err != nil {
		t.Fatalf("适配失败: %v", err)
	}

	long := "abcdefghijklmnopqrstuvwxyz"
	el.Content = long
	res, err := s.Refit(el, fit.Options{})
	if err != nil {
		t.Fatalf("重新适配失败: %v", err)
	}
	// 26 个字符单行排版：13*字号 <= 100 时不再超出
	if res.Start != fit.Larger || res.Final.FontSize != 7 || res.Reason != fit.ReasonFitted {
		t.Fatalf("期望按新内容缩小到 7，实际 %s -> %d (%s)", res.Start, res.Final.FontSize, res.Reason)
	}
	child := el.Child(fit.DefaultWrapperClass)
	if child == nil || child.Content != long {
		t.Fatalf("新内容应移入测量子节点，实际 %+v", child)
	}
	if el.Content != "" {
		t.Fatalf("外层元素的内容应被清空，实际 %q", el.Content)
	}
	if len(el.Children) != 1 {
		t.Fatalf("重新适配应复用测量子节点，实际 %d 个", len(el.Children))
	}
}

func TestSurfaceOuterBoxIncludesInset(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "abcd", 100, 40)
	el.Padding = 5
	el.Border = 1

	box := s.OuterBox(el)
	if box.Width != 112 || box.Height != 52 {
		t.Fatalf("外框应包含 padding 与 border，实际 %+v", box)
	}

	auto := newBox("b", "abcd", 0, 0)
	box = s.OuterBox(auto)
	if box.Height != 10 {
		t.Fatalf("未声明高度时应由内容决定，实际 %v", box.Height)
	}
	if box.Width < 19.99 || box.Width > 20.01 {
		t.Fatalf("未声明宽度时应由内容决定，实际 %v", box.Width)
	}
}

func TestSurfaceWrapsWithinParentWidth(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("a", "aaaa bbbb cccc", 45, 200)

	child := s.WrapContent(el, "inner")
	lines, err := s.Lines(child)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("期望折成多行，实际 %+v", lines)
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last.Content, "cccc") {
		t.Fatalf("最后一行应以 cccc 结尾，实际 %q", last.Content)
	}
	if s.WrapContent(el, "inner") != child {
		t.Fatalf("WrapContent 应复用已存在的子节点")
	}
}

func TestSurfaceReportsTypesetterError(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := newBox("bad", "abcd", 100, 40)
	el.Font = FontResource{Name: "broken"}

	_, _, err := s.Attach(el, fit.Options{})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("期望返回字体错误，实际 %v", err)
	}

	if s.Fitted(el) {
		t.Fatalf("排版失败后不应留下适配记录")
	}
	el.Font = FontResource{Name: "Body"}
	res, attached, err := s.Attach(el, fit.Options{})
	if err != nil || !attached {
		t.Fatalf("修正字体后应能重新适配，attached=%v err=%v", attached, err)
	}
	if res.Final.FontSize != 40 || !s.Fitted(el) {
		t.Fatalf("期望适配到 40 并记录，实际 %d fitted=%v", res.Final.FontSize, s.Fitted(el))
	}

	missing := NewSurface(nil, nil)
	if _, _, err := missing.Attach(newBox("b", "abcd", 100, 40), fit.Options{}); err == nil {
		t.Fatalf("缺少 Typesetter 时应报错")
	}
}

func TestSurfaceComputedStyle(t *testing.T) {
	s := NewSurface(&stubTypesetter{}, nil)
	el := NewElement("a", "x")
	if got := s.ComputedStyle(el, "font-size"); got != "16px" {
		t.Fatalf("font-size = %q", got)
	}
	if got := s.ComputedStyle(el, "line-height"); got != "normal" {
		t.Fatalf("line-height = %q", got)
	}
	s.SetStyle(el, fit.StyleDirective{FontSize: 24, LineHeight: 1.5})
	if el.FontSize != 24 || s.ComputedStyle(el, "line-height") != "1.5" {
		t.Fatalf("SetStyle 未生效: %d %s", el.FontSize, el.LineHeight)
	}
	if got := s.ComputedStyle(el, "color"); got != "" {
		t.Fatalf("未支持的属性应返回空串，实际 %q", got)
	}
}
