package fit

import (
	"math"
	"strconv"
	"strings"
)

// DefaultLineHeight 是无法解析计算行高（如 normal）时使用的倍数。
const DefaultLineHeight = 1.2

// LineHeightRatio 根据计算样式中的 line-height 与 font-size 推导行高倍数：
//
//	"24px" + "16px" → 1.5
//	"150%"          → 1.5
//	"normal"        → 1.2
//	"1.4"           → 1.4
func LineHeightRatio(lineHeight, fontSize string) float64 {
	lh := strings.TrimSpace(lineHeight)
	switch {
	case strings.Index(lh, "px") > 0:
		px, ok := leadingFloat(lh)
		size, sizeOK := ParseFontSize(fontSize)
		if !ok || !sizeOK || size <= 0 {
			return DefaultLineHeight
		}
		return px / float64(size)
	case strings.Index(lh, "%") > 0:
		pct, ok := leadingFloat(lh)
		if !ok {
			return DefaultLineHeight
		}
		return pct / 100
	}
	v, err := strconv.ParseFloat(lh, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultLineHeight
	}
	return v
}

// ParseFontSize 取计算字号的整数部分，例如 "16.8px" → 16。
func ParseFontSize(computed string) (int, bool) {
	s := strings.TrimSpace(computed)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingFloat 解析字符串开头最长的十进制数字前缀，忽略后续单位。
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	mantissa := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		mantissa++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			mantissa++
		}
	}
	if mantissa == 0 {
		return 0, false
	}
	// 指数部分只有在后面跟着数字时才算数，"1e" 按 1 处理
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '-' || s[exp] == '+') {
			exp++
		}
		digits := exp
		for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			exp++
		}
		if exp > digits {
			end = exp
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
