package debug

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 图像尺寸
const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// Charts 收敛曲线绘制
type Charts struct {
	*Record
}

// NewCharts 由记录创建曲线
func NewCharts(record *Record) *Charts {
	return &Charts{Record: record}
}

// Plot 生成失配量随迭代变化的曲线（对数坐标）
func (c *Charts) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Power flow convergence %s", c.Name)
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "mismatch |g|∞ (p.u.)"
	p.Add(plotter.NewGrid())

	var lines []any
	for _, r := range c.Reports {
		pts := make(plotter.XYs, 0, len(r.Trace))
		for i, v := range r.Trace {
			// 对数坐标只能绘制正的有限值
			if v > 0 && !math.IsInf(v, 0) {
				pts = append(pts, plotter.XY{X: float64(i), Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("island %d %s", r.Island, r.Method), pts)
	}
	if len(lines) == 0 {
		return p, nil
	}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

// Render 输出PNG图像
func (c *Charts) Render(w io.Writer) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save 保存到文件，格式由扩展名决定（png、svg、pdf）
func (c *Charts) Save(path string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	return p.Save(chartWidth, chartHeight, path)
}
