package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// stubTypesetter 是等宽排版：每个字符宽 0.5 个字号，按空格贪心折行。
// 单词本身超出宽度时独占一行，不再拆分。
type stubTypesetter struct {
	calls int
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, wrap string) ([]TextLine, error) {
	s.calls++
	if font.Name == "broken" {
		return nil, fmt.Errorf("字体 %s 加载失败", font.Name)
	}
	measure := func(text string) float64 {
		return float64(utf8.RuneCountInString(text)) * 0.5 * fontSize
	}
	if wrap == "nowrap" || width <= 0 {
		return []TextLine{{Content: content, Width: measure(content)}}, nil
	}
	var lines []TextLine
	var current string
	for _, word := range strings.Fields(content) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && measure(candidate) > width {
			lines = append(lines, TextLine{Content: current, Width: measure(current)})
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, TextLine{Content: current, Width: measure(current)})
	}
	return lines, nil
}
