package fit

import "log/slog"

// unboundedGrowSteps 限制未设置最大字号时放大循环的步数。
const unboundedGrowSteps = 4096

// Compare 按三态规则比较渲染尺寸与目标尺寸：任一维度超出即为 Larger；
// 否则任一维度不足即为 Smaller；其余为 Equal。
// 宽度总是先于高度判断，一维超出、一维不足的混合情况按 Larger 处理。
func Compare(s State, t Target) Comparison {
	if s.Width > t.Width || s.Height > t.Height {
		return Larger
	}
	if s.Width < t.Width || s.Height < t.Height {
		return Smaller
	}
	return Equal
}

// Engine 反复测量测量子节点并以 1px 步长调整字号，直到进入终态。
// 一个 Engine 只服务一次适配操作。
type Engine[E comparable] struct {
	host   Host[E]
	el     E
	target Target
	logger *slog.Logger

	state     State
	mutations int
}

// NewEngine 创建作用于测量子节点 el 的引擎；logger 为 nil 时不输出日志。
func NewEngine[E comparable](host Host[E], el E, target Target, logger *slog.Logger) *Engine[E] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine[E]{host: host, el: el, target: target, logger: logger}
}

// Run 同步执行完整的测量、比较、修改循环并返回终态。
func (e *Engine[E]) Run() Result {
	initial, ok := e.measure(0)
	res := Result{Target: e.target, Initial: initial}
	if !ok {
		e.logger.Debug("fit skipped: unreadable font-size",
			slog.String("font-size", e.host.ComputedStyle(e.el, "font-size")))
		res.Final = initial
		res.Reason = ReasonUnreadable
		return res
	}
	e.state = initial
	res.Start = Compare(initial, e.target)

	limit := e.budget(initial.FontSize)
	switch res.Start {
	case Larger:
		res.Reason = e.shrink(limit)
	case Smaller:
		res.Reason = e.grow(limit)
	default:
		res.Reason = ReasonEqual
	}

	res.Final = e.state
	res.Mutations = e.mutations
	e.logger.Debug("fit done",
		slog.String("start", res.Start.String()),
		slog.String("reason", res.Reason.String()),
		slog.Int("from", initial.FontSize),
		slog.Int("to", res.Final.FontSize),
		slog.Int("mutations", res.Mutations))
	return res
}

func (e *Engine[E]) shrink(limit int) Reason {
	for step := 0; step < limit; step++ {
		if e.state.FontSize <= e.target.MinFontSize {
			return ReasonMinReached
		}
		size := e.state.FontSize - 1
		e.apply(size)
		e.state, _ = e.measure(size)
		if Compare(e.state, e.target) != Larger {
			return ReasonFitted
		}
	}
	return ReasonStepLimit
}

func (e *Engine[E]) grow(limit int) Reason {
	for step := 0; step < limit; step++ {
		if e.target.Bounded() && e.state.FontSize >= e.target.MaxFontSize {
			return ReasonMaxReached
		}
		prev := e.state.FontSize
		e.apply(prev + 1)
		next, _ := e.measure(prev + 1)
		if Compare(next, e.target) == Larger {
			// 超出了，退回上一个字号
			e.apply(prev)
			e.state, _ = e.measure(prev)
			return ReasonOvershoot
		}
		e.state = next
	}
	return ReasonStepLimit
}

func (e *Engine[E]) apply(size int) {
	e.host.SetStyle(e.el, StyleDirective{FontSize: size, LineHeight: e.target.LineHeight})
	e.mutations++
}

// measure 读取当前字号与外框；宿主字号不可解析时使用 fallback。
func (e *Engine[E]) measure(fallback int) (State, bool) {
	box := e.host.OuterBox(e.el)
	size, ok := ParseFontSize(e.host.ComputedStyle(e.el, "font-size"))
	if !ok {
		size = fallback
	}
	s := State{FontSize: size, Width: box.Width, Height: box.Height}
	e.logger.Debug("fit measure",
		slog.Int("fontSize", s.FontSize),
		slog.Float64("width", s.Width),
		slog.Float64("height", s.Height))
	return s, ok
}

// budget 是循环步数的上限：|max-min|+1，并放宽到覆盖起始字号。
func (e *Engine[E]) budget(start int) int {
	span := abs(start - e.target.MinFontSize)
	if !e.target.Bounded() {
		return span + unboundedGrowSteps
	}
	span = max(span, abs(e.target.MaxFontSize-e.target.MinFontSize), abs(e.target.MaxFontSize-start))
	return span + 1
}

// Fit 解析参数并对 el 执行一次完整的适配操作。
func Fit[E comparable](host Host[E], el E, opts Options, logger *slog.Logger) Result {
	target, child := Resolve(host, el, opts)
	return NewEngine(host, child, target, logger).Run()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
