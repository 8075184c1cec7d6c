package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/boxyfit/layout"
)

// lineBreaker 逐段累积文本并在超过 limit 时换行。宽度单位为 mm。
type lineBreaker struct {
	face  *canvas.FontFace
	limit float64

	lines   []layout.TextLine
	current strings.Builder
	width   float64
}

// breakLines 按 wrap 模式贪心折行：
//   - anywhere（默认）：在空白处断行，单个词超宽时在词内拆分
//   - break-word：忽略空白，逐字符按宽度断行
//   - nowrap：只在显式换行处断行
//
// width <= 0 表示不限宽；显式换行总是保留，连续换行产生空行。
func breakLines(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.Inf(1)
	}
	lb := &lineBreaker{face: face, limit: limit}
	for i, paragraph := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		if i > 0 {
			lb.flush(true)
		}
		switch wrap {
		case "nowrap":
			lb.add(paragraph)
		case "break-word":
			for _, r := range paragraph {
				lb.fit(string(r))
			}
		default:
			for _, word := range splitWords(paragraph) {
				lb.fitWord(word)
			}
		}
	}
	lb.flush(true)
	return lb.lines
}

func (lb *lineBreaker) add(s string) {
	lb.current.WriteString(s)
	lb.width += lb.face.TextWidth(s)
}

// fit 追加 s，放不下时先换行。行首的 s 即使超宽也保留，避免死循环。
func (lb *lineBreaker) fit(s string) {
	w := lb.face.TextWidth(s)
	if lb.current.Len() > 0 && lb.width+w > lb.limit {
		lb.flush(false)
	}
	lb.current.WriteString(s)
	lb.width += w
}

func (lb *lineBreaker) fitWord(word string) {
	if isSpace(word) {
		if lb.current.Len() > 0 && lb.width+lb.face.TextWidth(word) > lb.limit {
			lb.flush(false) // 行首不保留空白
			return
		}
		lb.add(word)
		return
	}
	if lb.face.TextWidth(word) <= lb.limit {
		lb.fit(word)
		return
	}
	for _, chunk := range lb.split(word) {
		lb.fit(chunk)
	}
}

// split 把超宽的词切成不超过 limit 的片段，每段至少一个字符。
func (lb *lineBreaker) split(word string) []string {
	var parts []string
	runes := []rune(word)
	start := 0
	for end := 1; end <= len(runes); end++ {
		if end-start > 1 && lb.face.TextWidth(string(runes[start:end])) > lb.limit {
			parts = append(parts, string(runes[start:end-1]))
			start = end - 1
		}
	}
	return append(parts, string(runes[start:]))
}

// flush 结束当前行；force 为 true 时空行也会输出。行尾空白不计入行宽。
func (lb *lineBreaker) flush(force bool) {
	if lb.current.Len() == 0 && !force {
		return
	}
	text := lb.current.String()
	width := lb.width
	if trimmed := strings.TrimRightFunc(text, unicode.IsSpace); trimmed != text {
		text, width = trimmed, lb.face.TextWidth(trimmed)
	}
	lb.lines = append(lb.lines, layout.TextLine{Content: text, Width: width})
	lb.current.Reset()
	lb.width = 0
}

// splitWords 把一段文本切成交替的词与空白。
func splitWords(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if i > start && unicode.IsSpace(r) != isSpace(s[start:i]) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isSpace(s string) bool {
	return s != "" && strings.TrimFunc(s, unicode.IsSpace) == ""
}
