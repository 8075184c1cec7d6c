package fit

import "math"

// DefaultWrapperClass 是测量子节点的默认 class。
const DefaultWrapperClass = "boxy-text-inner"

// Options 是调用方提供的适配参数，nil 表示未设置。
type Options struct {
	Height       *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Width        *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	MaxFontSize  *int     `json:"maxFontSize,omitempty" yaml:"max-font-size,omitempty"`
	MinFontSize  int      `json:"minFontSize,omitempty" yaml:"min-font-size,omitempty"`
	LineHeight   *float64 `json:"lineHeight,omitempty" yaml:"line-height,omitempty"`
	WrapperClass string   `json:"wrapperClass,omitempty" yaml:"wrapper-class,omitempty"`
}

// DefaultOptions 每次返回新的默认值，不存在共享的可变默认对象。
func DefaultOptions() Options {
	return Options{
		MinFontSize:  1,
		WrapperClass: DefaultWrapperClass,
	}
}

// Merge 以 user 为准，用 defaults 补齐未设置的字段。两个入参都不会被修改。
func Merge(user, defaults Options) Options {
	out := Options{
		Height:       cloneFloat(defaults.Height),
		Width:        cloneFloat(defaults.Width),
		MaxFontSize:  cloneInt(defaults.MaxFontSize),
		MinFontSize:  defaults.MinFontSize,
		LineHeight:   cloneFloat(defaults.LineHeight),
		WrapperClass: defaults.WrapperClass,
	}
	if user.Height != nil {
		out.Height = cloneFloat(user.Height)
	}
	if user.Width != nil {
		out.Width = cloneFloat(user.Width)
	}
	if user.MaxFontSize != nil {
		out.MaxFontSize = cloneInt(user.MaxFontSize)
	}
	if user.MinFontSize != 0 {
		out.MinFontSize = user.MinFontSize
	}
	if user.LineHeight != nil {
		out.LineHeight = cloneFloat(user.LineHeight)
	}
	if user.WrapperClass != "" {
		out.WrapperClass = user.WrapperClass
	}
	return out
}

// Float 和 Int 用于构造可选字段。
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }

// usable 判断数值是否可用：0 与 NaN 视为未提供，回退到测量值。
func usable(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
