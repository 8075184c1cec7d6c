package layout

// 该文件定义适配结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 除特别说明外，坐标与尺寸均为 CSS 像素（px）。

// Result 保存画布、已适配的文本框与资源信息。
type Result struct {
	Canvas    Canvas       `json:"canvas"`
	Boxes     []TextBox    `json:"boxes"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// Canvas 是输出页面，Margin 为四边统一的留白。
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<名称> 或 builtin:<名称>。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style"`
	Family    string `json:"family"`    // 渲染器使用的 Family 名称
	IsBuiltin bool   `json:"isBuiltin"` // 是否为注入的内建字体
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Style 用于描述可继承的文本样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// TextBox 是一个已完成字号适配、可以直接绘制的文本框。
// X/Y/Width/Height 为外框（含 padding），文本从内容区左上角开始排。
type TextBox struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Padding    float64    `json:"padding"`
	Font       string     `json:"font"`
	FontSize   int        `json:"fontSize"`   // 适配后的字号（px）
	LineHeight float64    `json:"lineHeight"` // 行高倍数
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left/center/right，默认 left
	Wrap       string     `json:"wrap,omitempty"`
	Lines      []TextLine `json:"lines"`
	Overflow   bool       `json:"overflow,omitempty"` // 在字号上下限内无法放下
	Outline    *Color     `json:"outline,omitempty"`  // 为空表示不绘制边框
	Debug      *FitDebug  `json:"debug,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽度（px）。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// FitDebug 记录适配过程，仅在 DebugOptions.Fit 开启时输出。
type FitDebug struct {
	TargetWidth  float64 `json:"targetWidth"`
	TargetHeight float64 `json:"targetHeight"`
	MinFontSize  int     `json:"minFontSize"`
	MaxFontSize  int     `json:"maxFontSize,omitempty"`
	From         int     `json:"from"`
	Start        string  `json:"start"`
	Reason       string  `json:"reason"`
	Mutations    int     `json:"mutations"`
	FinalWidth   float64 `json:"finalWidth"`
	FinalHeight  float64 `json:"finalHeight"`
}

// DocumentMeta 保存输出文件的元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
