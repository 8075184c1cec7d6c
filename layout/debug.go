package layout

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/boxyfit/fit"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newFitDebug(res fit.Result) *FitDebug {
	return &FitDebug{
		TargetWidth:  res.Target.Width,
		TargetHeight: res.Target.Height,
		MinFontSize:  res.Target.MinFontSize,
		MaxFontSize:  res.Target.MaxFontSize,
		From:         res.Initial.FontSize,
		Start:        res.Start.String(),
		Reason:       res.Reason.String(),
		Mutations:    res.Mutations,
		FinalWidth:   res.Final.Width,
		FinalHeight:  res.Final.Height,
	}
}
