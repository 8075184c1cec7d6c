// Package config 读取命令行使用的适配配置文件（YAML 或 TOML）。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/boxyfit/fit"
)

// Profile 是文档未声明时使用的全局参数。零值表示不设置。
type Profile struct {
	// MinFontSize 为字号下限（px），小于 1 时按 1 处理。
	MinFontSize int `yaml:"min-font-size" toml:"min-font-size"`
	// MaxFontSize 为字号上限（px），0 表示不限。
	MaxFontSize int `yaml:"max-font-size" toml:"max-font-size"`
	// LineHeight 为行高倍数，0 表示从元素样式推导。
	LineHeight   float64 `yaml:"line-height" toml:"line-height"`
	WrapperClass string  `yaml:"wrapper-class" toml:"wrapper-class"`

	// Format 为输出格式：pdf 或 svg。
	Format   string `yaml:"format" toml:"format"`
	Outline  bool   `yaml:"outline" toml:"outline"`
	DebugFit bool   `yaml:"debug-fit" toml:"debug-fit"`
}

// Load 按扩展名读取配置文件：.yaml/.yml 使用 YAML，.toml 使用 TOML。
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	p, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Profile{}, fmt.Errorf("配置 %s: %w", path, err)
	}
	return p, nil
}

// Parse 解析配置内容，ext 为带点的扩展名。未知字段视为错误。
func Parse(data []byte, ext string) (Profile, error) {
	var p Profile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return Profile{}, fmt.Errorf("解析 YAML 失败: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return Profile{}, fmt.Errorf("解析 TOML 失败: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Profile{}, fmt.Errorf("未知的配置项: %v", undecoded)
		}
	default:
		return Profile{}, fmt.Errorf("不支持的配置格式 %q（可选 .yaml、.yml、.toml）", ext)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate 检查字号范围、行高与输出格式。
func (p Profile) Validate() error {
	if p.MinFontSize < 0 {
		return fmt.Errorf("min-font-size 不能为负数: %d", p.MinFontSize)
	}
	if p.MaxFontSize < 0 {
		return fmt.Errorf("max-font-size 不能为负数: %d", p.MaxFontSize)
	}
	if p.MaxFontSize > 0 && p.MinFontSize > p.MaxFontSize {
		return fmt.Errorf("min-font-size %d 大于 max-font-size %d", p.MinFontSize, p.MaxFontSize)
	}
	if p.LineHeight < 0 {
		return fmt.Errorf("line-height 不能为负数: %g", p.LineHeight)
	}
	switch strings.ToLower(p.Format) {
	case "", "pdf", "svg":
	default:
		return fmt.Errorf("format 只能是 pdf 或 svg，实际 %q", p.Format)
	}
	return nil
}

// FitOptions 转换为适配参数，未设置的字段保持为空，由 fit.Merge 补齐。
func (p Profile) FitOptions() fit.Options {
	opts := fit.Options{
		MinFontSize:  p.MinFontSize,
		WrapperClass: p.WrapperClass,
	}
	if p.MaxFontSize > 0 {
		opts.MaxFontSize = fit.Int(p.MaxFontSize)
	}
	if p.LineHeight > 0 {
		opts.LineHeight = fit.Float(p.LineHeight)
	}
	return opts
}
