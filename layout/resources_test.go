package layout

import (
	"testing"

	"github.com/ByLCY/boxyfit/dsl"
)

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fff":      {R: 255, G: 255, B: 255},
		"#102030":   {R: 0x10, G: 0x20, B: 0x30},
		"#10203080": {R: 0x10, G: 0x20, B: 0x30},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %+v, %v；期望 %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "red"} {
		if _, err := parseColor(bad); err == nil {
			t.Fatalf("parseColor(%q) 应报错", bad)
		}
	}
}

func TestCollectResourcesStyleInheritance(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 {
  resources {
    font Serif { src: "embed:lmroman10-regular"; style: "bold" }
    color Ink = #abc
    style Base { font: Serif; size: 12px; color: Ink }
    style Title extends Base { size: 30px }
  }
  canvas 10px 10px { }
}`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	res, err := collectResources(doc)
	if err != nil {
		t.Fatalf("收集资源失败: %v", err)
	}
	if _, ok := res.Fonts["Body"]; ok {
		t.Fatalf("声明了字体时不应补默认 Body")
	}
	if f := res.Fonts["Serif"]; f.Src != "embed:lmroman10-regular" || f.Style != "bold" || f.IsBuiltin {
		t.Fatalf("字体解析错误: %+v", f)
	}
	title := res.Styles["Title"].Props
	if title["size"] != "30px" || title["font"] != "Serif" || title["color"] != "Ink" {
		t.Fatalf("样式继承错误: %+v", title)
	}
	if c := lookupColor("Ink", res); c != (Color{R: 0xaa, G: 0xbb, B: 0xcc}) {
		t.Fatalf("颜色资源错误: %+v", c)
	}
	if c := lookupColor("nope", res); c != defaultColor {
		t.Fatalf("未知颜色应回退默认值，实际 %+v", c)
	}
	attrs := boxAttributes("Title", map[string]string{"size": "8px"}, res.Styles)
	if attrs["size"] != "8px" || attrs["font"] != "Serif" {
		t.Fatalf("行内参数应覆盖样式: %+v", attrs)
	}
}

func TestCollectResourcesUndefinedParent(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 { resources { style A extends Missing { size: 1px } } canvas 10px 10px { } }`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := collectResources(doc); err == nil {
		t.Fatalf("继承未定义的样式应报错")
	}
}

func TestLookupFontFallbackIsStable(t *testing.T) {
	res := ResourceSet{Fonts: map[string]FontResource{
		"Serif": {Name: "Serif"},
		"Mono":  {Name: "Mono"},
		"Sans":  {Name: "Sans"},
	}}
	for i := 0; i < 20; i++ {
		font, err := lookupFont("Missing", res)
		if err != nil || font.Name != "Mono" {
			t.Fatalf("未定义的字体应稳定退回 Mono，实际 %+v, %v", font, err)
		}
	}

	res.Fonts["Body"] = FontResource{Name: "Body"}
	if font, _ := lookupFont("Missing", res); font.Name != "Body" {
		t.Fatalf("存在 Body 时应优先退回 Body，实际 %s", font.Name)
	}
	if _, err := lookupFont("Missing", ResourceSet{}); err == nil {
		t.Fatalf("没有任何字体时应报错")
	}
}
