package layout

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/ByLCY/boxyfit/fit"
)

// Surface 是基于 Typesetter 的渲染面，实现 fit.Host。
// 每次 OuterBox 都会重新排版，因此样式修改会立刻反映在下一次测量中。
type Surface struct {
	ts     Typesetter
	logger *slog.Logger

	mu     sync.Mutex
	fitted map[*Element]bool // 已完成适配的外层元素
}

var _ fit.Host[*Element] = (*Surface)(nil)

// NewSurface 创建渲染面；logger 为 nil 时使用 slog.Default()。
func NewSurface(ts Typesetter, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{ts: ts, logger: logger, fitted: map[*Element]bool{}}
}

// Attach 对 el 执行一次适配。el 已经适配过时直接返回 attached=false，不做任何修改。
// 返回的 error 只来自排版后端（如字体加载失败），适配本身不会失败。
func (s *Surface) Attach(el *Element, opts fit.Options) (res fit.Result, attached bool, err error) {
	if el == nil {
		return fit.Result{}, false, fmt.Errorf("layout: 元素为空")
	}
	s.mu.Lock()
	if s.fitted[el] {
		s.mu.Unlock()
		return fit.Result{}, false, nil
	}
	s.fitted[el] = true
	s.mu.Unlock()

	res = fit.Fit[*Element](s, el, opts, s.logger.With(slog.String("box", el.ID)))
	if err := el.takeErr(); err != nil {
		// 失败的适配不留下记录，修正字体后可以再次 Attach
		s.mu.Lock()
		delete(s.fitted, el)
		s.mu.Unlock()
		return res, true, fmt.Errorf("元素 %s 排版失败: %w", el.ID, err)
	}
	return res, true, nil
}

// Refit 清除 el 的适配记录后重新适配，用于内容或尺寸变化之后。
// 写在外层元素上的新内容会在 WrapContent 时移入测量子节点。
func (s *Surface) Refit(el *Element, opts fit.Options) (fit.Result, error) {
	s.mu.Lock()
	delete(s.fitted, el)
	s.mu.Unlock()
	res, _, err := s.Attach(el, opts)
	return res, err
}

// Fitted 报告 el 是否已完成适配。
func (s *Surface) Fitted(el *Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fitted[el]
}

// OuterBox 返回含 padding 与 border 的外框。
// 声明了尺寸的维度直接使用声明值，否则由内容决定。
func (s *Surface) OuterBox(el *Element) fit.Box {
	w, h := el.Width, el.Height
	if w <= 0 || h <= 0 {
		cw, ch := s.contentSize(el)
		if w <= 0 {
			w = cw
		}
		if h <= 0 {
			h = ch
		}
	}
	inset := 2 * el.inset()
	return fit.Box{Width: w + inset, Height: h + inset}
}

// ComputedStyle 支持 font-size 与 line-height，其余属性返回空串。
func (s *Surface) ComputedStyle(el *Element, prop string) string {
	switch strings.ToLower(prop) {
	case "font-size":
		return fmt.Sprintf("%dpx", el.FontSize)
	case "line-height":
		if el.LineHeight == "" {
			return "normal"
		}
		return el.LineHeight
	default:
		return ""
	}
}

// SetStyle 同时写入字号与行高倍数。
func (s *Surface) SetStyle(el *Element, d fit.StyleDirective) {
	el.FontSize = d.FontSize
	el.LineHeight = formatNumber(d.LineHeight)
}

// WrapContent 把 el 的内容移入 class 为 class 的测量子节点；子节点已存在时复用。
// 子节点继承父节点当前的字体样式，宽度按内容收缩，折行宽度取父节点的内容宽度。
func (s *Surface) WrapContent(el *Element, class string) *Element {
	if child := el.Child(class); child != nil {
		if el.Content != "" {
			child.Content = el.Content
			el.Content = ""
		}
		child.Font = el.Font
		child.Wrap = el.Wrap
		return child
	}
	child := &Element{
		ID:         el.ID + "." + class,
		Class:      class,
		Content:    el.Content,
		Font:       el.Font,
		FontSize:   el.FontSize,
		LineHeight: el.LineHeight,
		Wrap:       el.Wrap,
		parent:     el,
	}
	el.Content = ""
	el.Children = append(el.Children, child)
	return child
}

// Lines 返回 el 当前样式下的排版结果（px）。
func (s *Surface) Lines(el *Element) ([]TextLine, error) {
	lines, err := s.layoutText(el)
	if err != nil {
		return nil, fmt.Errorf("元素 %s 排版失败: %w", el.ID, err)
	}
	return lines, nil
}

// contentSize 计算内容区尺寸：有子节点时取子节点外框的并集，否则排版自身文本。
func (s *Surface) contentSize(el *Element) (float64, float64) {
	if len(el.Children) > 0 {
		var w, h float64
		for _, c := range el.Children {
			box := s.OuterBox(c)
			w = math.Max(w, box.Width)
			h += box.Height
		}
		return w, h
	}
	lines, err := s.layoutText(el)
	if err != nil {
		el.err = err
		return 0, 0
	}
	var w float64
	for _, ln := range lines {
		w = math.Max(w, ln.Width)
	}
	return w, float64(len(lines)) * s.lineHeightPx(el)
}

// layoutText 调用 Typesetter 折行，并把 mm 换算回 px。
func (s *Surface) layoutText(el *Element) ([]TextLine, error) {
	if el.Content == "" {
		return nil, nil
	}
	if s.ts == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if el.FontSize <= 0 {
		return nil, nil
	}
	lines, err := s.ts.LayoutLines(el.Content, s.wrapWidth(el)*PxToMm, el.Font, float64(el.FontSize)*PxToMm, el.Wrap)
	if err != nil {
		return nil, err
	}
	out := make([]TextLine, len(lines))
	for i, ln := range lines {
		out[i] = TextLine{Content: ln.Content, Width: ln.Width * MmToPx}
	}
	return out, nil
}

// wrapWidth 是折行宽度：自身声明的内容宽度，否则向上取最近的声明宽度；都没有则不限宽。
func (s *Surface) wrapWidth(el *Element) float64 {
	for n := el; n != nil; n = n.parent {
		if n.Width > 0 {
			return n.Width
		}
	}
	return 0
}

func (s *Surface) lineHeightPx(el *Element) float64 {
	ratio := fit.LineHeightRatio(s.ComputedStyle(el, "line-height"), s.ComputedStyle(el, "font-size"))
	return ratio * float64(el.FontSize)
}
