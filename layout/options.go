package layout

import (
	"log/slog"

	"github.com/ByLCY/boxyfit/fit"
)

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与默认适配参数。
type BuildOptions struct {
	Typesetter Typesetter
	Defaults   fit.Options // 文档未指定时使用的适配参数
	Outline    bool        // 为每个文本框绘制外框
	Logger     *slog.Logger
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Fit bool // 在调试 JSON 中输出 debug 适配过程
}

// Typesetter 负责根据字体与宽度约束将文本拆成行。
// 约定：width/fontSize 与返回的行宽均为毫米（mm）；width <= 0 表示不限宽。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, wrap string) ([]TextLine, error)
}
