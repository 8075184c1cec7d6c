package layout

// Element 是渲染面上的一个节点。尺寸单位为 px。
// 外层元素由调用方创建；测量子节点由 Surface.WrapContent 创建，内容从父节点移入子节点。
type Element struct {
	ID         string
	Class      string
	Content    string
	Font       FontResource
	FontSize   int    // 计算字号（px）
	LineHeight string // 计算行高，写法同 CSS：normal、1.4、24px、150%
	Wrap       string // anywhere / break-word / nowrap

	// Width/Height 为内容区尺寸，0 表示由内容决定
	Width   float64
	Height  float64
	Padding float64
	Border  float64

	Children []*Element
	parent   *Element
	err      error // 最近一次排版失败的原因
}

// DefaultFontSize 与浏览器默认字号一致。
const DefaultFontSize = 16

// NewElement 创建一个使用默认字号与行高的元素。
func NewElement(id, content string) *Element {
	return &Element{
		ID:         id,
		Content:    content,
		FontSize:   DefaultFontSize,
		LineHeight: "normal",
		Wrap:       "anywhere",
	}
}

// Parent 返回父节点，外层元素返回 nil。
func (el *Element) Parent() *Element { return el.parent }

// Child 返回 class 匹配的直接子节点。
func (el *Element) Child(class string) *Element {
	for _, c := range el.Children {
		if c.Class == class {
			return c
		}
	}
	return nil
}

// inset 是单侧的 padding 与 border 之和。
func (el *Element) inset() float64 { return el.Padding + el.Border }

// takeErr 取出并清除 el 及其子节点上记录的第一个排版错误。
func (el *Element) takeErr() error {
	err := el.err
	el.err = nil
	for _, c := range el.Children {
		if childErr := c.takeErr(); err == nil {
			err = childErr
		}
	}
	return err
}
