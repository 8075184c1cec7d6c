package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Default 是未声明字体或字体加载失败时使用的内置字体。
const Default = "lmsans10-regular"

var embedded = map[string][]byte{
	"lmsans10-regular":  lmsans10regular.TTF,
	"lmsans10-bold":     lmsans10bold.TTF,
	"lmsans10-oblique":  lmsans10oblique.TTF,
	"lmroman10-regular": lmroman10regular.TTF,
	"lmroman10-bold":    lmroman10bold.TTF,
	"lmroman10-italic":  lmroman10italic.TTF,
	"lmmono10-regular":  lmmono10regular.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmsans10-regular" 或直接 "lmsans10-regular"。
// 名称不区分大小写，并允许带 .otf/.ttf 后缀。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	key = strings.TrimSuffix(strings.TrimSuffix(key, ".otf"), ".ttf")
	data, ok := embedded[key]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在，可选: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 按字母序列出全部内置字体名称。
func Names() []string {
	names := make([]string, 0, len(embedded))
	for name := range embedded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
