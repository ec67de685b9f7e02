package debug

import (
	"encoding/json"
	"io"

	"github.com/SanPen/GridCal-sub027/types"
)

// Record 记录求解过程
type Record struct {
	RunID   string                    `json:"run_id"`  // 计算编号
	Name    string                    `json:"name"`    // 网络名称
	Reports []types.ConvergenceReport `json:"reports"` // 收敛报告（含迭代失配量）
}

// NewRecord 创建记录
func NewRecord(runID, name string) *Record {
	return &Record{RunID: runID, Name: name}
}

// Update 追加收敛报告
func (list *Record) Update(reports ...types.ConvergenceReport) {
	list.Reports = append(list.Reports, reports...)
}

// Iterations 总迭代次数
func (list *Record) Iterations() int {
	n := 0
	for _, r := range list.Reports {
		n += r.Iterations
	}
	return n
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
