package fit

// 该文件定义适配算法与宿主渲染面之间交换的数据结构。

// Box 是元素的外框尺寸（含 padding 与 border）。
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Target 是一次适配操作的固定目标，解析后不再变化。
type Target struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	LineHeight  float64 `json:"lineHeight"` // 相对字号的倍数
	MinFontSize int     `json:"minFontSize"`
	MaxFontSize int     `json:"maxFontSize"` // 0 表示无上限
}

// Bounded 报告是否设置了字号上限。
func (t Target) Bounded() bool { return t.MaxFontSize > 0 }

// State 是测量子节点当前的字号与外框尺寸，每次修改样式后重新读取。
type State struct {
	FontSize int     `json:"fontSize"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// StyleDirective 是写回宿主的唯一通道，字号与行高总是一起设置。
type StyleDirective struct {
	FontSize   int
	LineHeight float64
}

// Host 是宿主渲染面。每次 SetStyle 之后，下一次 OuterBox 必须反映新的样式。
type Host[E comparable] interface {
	OuterBox(el E) Box
	ComputedStyle(el E, prop string) string
	SetStyle(el E, d StyleDirective)
	// WrapContent 确保 el 内有一个 class 为 class 的测量子节点并返回它；重复调用返回同一个节点。
	WrapContent(el E, class string) E
}

// Comparison 是渲染尺寸与目标尺寸的三态比较结果。
type Comparison int

const (
	Equal Comparison = iota
	Larger
	Smaller
)

func (c Comparison) String() string {
	switch c {
	case Larger:
		return "larger"
	case Smaller:
		return "smaller"
	default:
		return "equal"
	}
}

// Reason 记录引擎进入终态的原因。
type Reason int

const (
	ReasonEqual      Reason = iota // 初始测量即相等，未做任何修改
	ReasonFitted                   // 缩小后不再超出
	ReasonMinReached               // 到达最小字号仍超出
	ReasonMaxReached               // 放大到最大字号未超出
	ReasonOvershoot                // 放大后超出，已回退到上一个字号
	ReasonStepLimit                // 步数预算耗尽
	ReasonUnreadable               // 无法读取计算字号，未做修改
)

func (r Reason) String() string {
	switch r {
	case ReasonEqual:
		return "equal"
	case ReasonFitted:
		return "fitted"
	case ReasonMinReached:
		return "min-reached"
	case ReasonMaxReached:
		return "max-reached"
	case ReasonOvershoot:
		return "overshoot"
	case ReasonStepLimit:
		return "step-limit"
	case ReasonUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Result 描述一次适配操作的终态。
type Result struct {
	Target    Target     `json:"target"`
	Initial   State      `json:"initial"`
	Final     State      `json:"final"`
	Start     Comparison `json:"-"`
	Reason    Reason     `json:"-"`
	Mutations int        `json:"mutations"` // SetStyle 调用次数
}

// Fits 报告最终尺寸是否落在目标范围内；调用方据此判断是否收敛。
func (r Result) Fits() bool {
	return r.Final.Width <= r.Target.Width && r.Final.Height <= r.Target.Height
}
