package canvasrenderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/boxyfit/fonts"
	"github.com/ByLCY/boxyfit/layout"
)

// fontCache 按字体资源缓存已加载的 FontFamily。无法加载的字体映射到内置的默认字体，
// 只在默认字体也无法加载时报错。
type fontCache struct {
	baseDir  string
	injected map[string][]byte

	mu       sync.Mutex
	families map[string]cachedFamily
	fallback *canvas.FontFamily
}

type cachedFamily struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

func newFontCache(baseDir string, injected map[string]Resource) *fontCache {
	fc := &fontCache{
		baseDir:  baseDir,
		injected: map[string][]byte{},
		families: map[string]cachedFamily{},
	}
	for name, res := range injected {
		if name == "" {
			continue
		}
		data := res.Bytes
		if len(data) == 0 && res.Path != "" {
			data, _ = os.ReadFile(res.Path) // 读取失败时在引用处报错
		}
		if len(data) > 0 {
			fc.injected[name] = data
		}
	}
	return fc
}

// face 返回 sizePt 字号的字体面。
func (fc *fontCache) face(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	entry, err := fc.family(font)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(sizePt, rgb(col), entry.style, canvas.FontNormal), nil
}

func (fc *fontCache) family(font layout.FontResource) (cachedFamily, error) {
	key := font.Name + "|" + font.Src + "|" + font.Style
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if entry, ok := fc.families[key]; ok {
		return entry, nil
	}

	name := font.Family
	if name == "" {
		name = font.Name
	}
	if name == "" {
		name = "Body"
	}
	entry := cachedFamily{family: canvas.NewFontFamily(name), style: fontStyle(font.Style)}
	data, err := fc.read(font)
	if err == nil {
		err = entry.family.LoadFont(data, 0, entry.style)
	}
	if err != nil {
		fb, fbErr := fc.defaultFamily()
		if fbErr != nil {
			return cachedFamily{}, fmt.Errorf("加载字体 %s 失败: %w", font.Name, err)
		}
		entry = cachedFamily{family: fb, style: canvas.FontRegular}
	}
	fc.families[key] = entry
	return entry, nil
}

// read 按 src 前缀读取字体：builtin: 注入字体、embed: 内置字体，其余视为相对 baseDir 的路径。
func (fc *fontCache) read(font layout.FontResource) ([]byte, error) {
	src := font.Src
	switch {
	case src == "":
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	case strings.HasPrefix(src, "builtin:"), strings.HasPrefix(src, "built-in:"):
		name := src[strings.IndexByte(src, ':')+1:]
		if data, ok := fc.injected[name]; ok {
			return data, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 builtin:%s", name)
	case strings.HasPrefix(src, "embed:"):
		return fonts.Load(src)
	}
	if filepath.IsAbs(src) {
		return os.ReadFile(src)
	}
	if fc.baseDir == "" {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin: 或 embed:）", src)
	}
	return os.ReadFile(filepath.Join(fc.baseDir, src))
}

// defaultFamily 懒加载内置默认字体。调用方需持有 mu。
func (fc *fontCache) defaultFamily() (*canvas.FontFamily, error) {
	if fc.fallback != nil {
		return fc.fallback, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("boxyfit-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	fc.fallback = family
	return family, nil
}

var fontWeights = []struct {
	keyword string
	style   canvas.FontStyle
}{
	{"extrabold", canvas.FontExtraBold},
	{"semibold", canvas.FontSemiBold},
	{"demibold", canvas.FontSemiBold},
	{"black", canvas.FontBlack},
	{"bold", canvas.FontBold},
	{"medium", canvas.FontMedium},
	{"light", canvas.FontLight},
}

// fontStyle 把 "bold italic" 之类的描述转换为 canvas 字重与斜体标志。
func fontStyle(desc string) canvas.FontStyle {
	s := strings.ToLower(desc)
	style := canvas.FontRegular
	for _, w := range fontWeights {
		if strings.Contains(s, w.keyword) {
			style = w.style
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}
