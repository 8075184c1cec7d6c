package fit

// Resolve 把调用方参数与宿主当前状态合成为固定的 Target，并确保 el 内存在测量子节点。
// 之后的测量与样式修改都作用在返回的子节点上，而不是 el 本身。
func Resolve[E comparable](host Host[E], el E, opts Options) (Target, E) {
	opts = Merge(opts, DefaultOptions())

	box := host.OuterBox(el)
	target := Target{
		Width:       box.Width,
		Height:      box.Height,
		MinFontSize: opts.MinFontSize,
	}
	if usable(opts.Height) {
		target.Height = *opts.Height
	}
	if usable(opts.Width) {
		target.Width = *opts.Width
	}
	if target.MinFontSize < 1 {
		target.MinFontSize = 1
	}
	if opts.MaxFontSize != nil && *opts.MaxFontSize > 0 {
		target.MaxFontSize = *opts.MaxFontSize
	}

	if opts.LineHeight != nil {
		target.LineHeight = *opts.LineHeight
	} else {
		target.LineHeight = LineHeightRatio(
			host.ComputedStyle(el, "line-height"),
			host.ComputedStyle(el, "font-size"),
		)
	}

	child := host.WrapContent(el, opts.WrapperClass)
	return target, child
}
