package layout

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/boxyfit/dsl"
)

// DefaultFontSrc 是文档未声明字体时使用的内置字体。
const DefaultFontSrc = "embed:lmsans10-regular"

var defaultColor = Color{R: 30, G: 30, B: 30}

// collectResources 汇总所有 resources 段落：字体、颜色与样式。样式的 extends 在最后统一展开。
func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Styles: map[string]Style{},
	}
	declared := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, cmd := range commandsOf(section.Resources.Block) {
			if len(cmd.Args) == 0 {
				continue
			}
			name := cmd.Args[0].Value
			switch cmd.Name {
			case "font":
				res.Fonts[name] = fontFromCommand(name, cmd.Block)
			case "color":
				// color Name = #RRGGBB，取最后一个参数
				if len(cmd.Args) < 2 {
					continue
				}
				c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
				if err != nil {
					return res, fmt.Errorf("颜色 %s: %w", name, err)
				}
				res.Colors[name] = c
			case "style":
				declared[name] = styleFromCommand(name, cmd)
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts["Body"] = FontResource{Name: "Body", Src: DefaultFontSrc, Family: "Body"}
	}
	styles, err := expandStyles(declared)
	if err != nil {
		return res, err
	}
	res.Styles = styles
	return res, nil
}

func commandsOf(b *dsl.Block) []*dsl.Command {
	if b == nil {
		return nil
	}
	var out []*dsl.Command
	for _, stmt := range b.Statements {
		if stmt.Command != nil {
			out = append(out, stmt.Command)
		}
	}
	return out
}

func assignmentsOf(b *dsl.Block) map[string]*dsl.Value {
	out := map[string]*dsl.Value{}
	if b == nil {
		return out
	}
	for _, stmt := range b.Statements {
		if stmt.Assignment != nil {
			out[stmt.Assignment.Key] = stmt.Assignment.Value
		}
	}
	return out
}

// fontFromCommand 解析 `font Name { src: "..."; style: "bold"; family: "..." }`。
func fontFromCommand(name string, block *dsl.Block) FontResource {
	font := FontResource{Name: name, Family: name}
	for key, val := range assignmentsOf(block) {
		if val.String == nil {
			continue
		}
		switch key {
		case "src":
			font.Src = string(*val.String)
			font.IsBuiltin = strings.HasPrefix(font.Src, "builtin:") || strings.HasPrefix(font.Src, "built-in:")
		case "style":
			font.Style = string(*val.String)
		case "family":
			font.Family = string(*val.String)
		}
	}
	return font
}

// styleFromCommand 解析 `style Name [extends Base] { key: value }`。
func styleFromCommand(name string, cmd *dsl.Command) Style {
	style := Style{Name: name, Props: map[string]string{}}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	for key, val := range assignmentsOf(cmd.Block) {
		if text := val.Text(); text != "" {
			style.Props[key] = text
		}
	}
	return style
}

// expandStyles 展开 extends 继承链，子样式覆盖父样式；引用未定义的样式或出现循环时报错。
func expandStyles(declared map[string]Style) (map[string]Style, error) {
	done := map[string]Style{}
	onPath := map[string]bool{}

	var expand func(name string) (Style, error)
	expand = func(name string) (Style, error) {
		if style, ok := done[name]; ok {
			return style, nil
		}
		style, ok := declared[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if onPath[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		onPath[name] = true
		defer delete(onPath, name)

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := expand(style.Extends)
			if err != nil {
				return Style{}, err
			}
			maps.Copy(props, parent.Props)
		}
		maps.Copy(props, style.Props)
		style.Props = props
		done[name] = style
		return style, nil
	}

	for name := range declared {
		if _, err := expand(name); err != nil {
			return nil, err
		}
	}
	return done, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "boxyfit"}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for key, val := range assignmentsOf(section.Meta.Block) {
			switch strings.ToLower(key) {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.Texts()
			}
		}
	}
	return meta
}

// boxAttributes 合并样式与行内参数，行内参数优先。
func boxAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string, len(inline))
	if s, ok := styles[style]; ok {
		maps.Copy(out, s.Props)
	}
	maps.Copy(out, inline)
	return out
}

// lookupFont 按名称取字体，找不到时依次退回 Body 与名称最小的已声明字体。
func lookupFont(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts["Body"]; ok {
		return font, nil
	}
	if names := slices.Sorted(maps.Keys(res.Fonts)); len(names) > 0 {
		return res.Fonts[names[0]], nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

// lookupColor 先查颜色资源，再按十六进制解析，都失败时使用默认墨色。
func lookupColor(value string, res ResourceSet) Color {
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if c, err := parseColor(value); err == nil {
		return c
	}
	return defaultColor
}

// parseColor 接受 #RGB、#RRGGBB 与 #RRGGBBAA（忽略透明度）。
func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	case 6, 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
