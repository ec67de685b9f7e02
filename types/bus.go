package types

// BusMode 节点类型
type BusMode int

// 节点类型常量定义
const (
	BusPQ    BusMode = iota // 给定有功、无功
	BusPV                   // 给定有功、电压幅值
	BusSlack                // 给定电压幅值、相角，平衡全网功率
)

var busModeString = map[BusMode]string{
	BusPQ:    "PQ",
	BusPV:    "PV",
	BusSlack: "Slack",
}

// String 返回节点类型的字符串表示
func (m BusMode) String() string {
	if s, ok := busModeString[m]; ok {
		return s
	}
	return "Unknown"
}

// Bus 母线
type Bus struct {
	ID     string     `json:"id" yaml:"id"`         // 名称
	Vnom   float64    `json:"vnom" yaml:"vnom"`     // 额定电压(kV)
	Mode   BusMode    `json:"mode" yaml:"mode"`     // 请求的节点类型
	Active bool       `json:"active" yaml:"active"` // 投运标记
	Vset   float64    `json:"vset" yaml:"vset"`     // PV/平衡节点电压幅值(p.u.)，0表示1.0
	Angle  float64    `json:"angle" yaml:"angle"`   // 平衡节点相角(rad)
	Qmin   float64    `json:"qmin" yaml:"qmin"`     // 聚合无功下限(p.u.)
	Qmax   float64    `json:"qmax" yaml:"qmax"`     // 聚合无功上限(p.u.)
	Shunt  complex128 `json:"-" yaml:"-"`           // 对地并联导纳(p.u.)
}

// SetPoint 得到电压幅值设定值
func (b *Bus) SetPoint() float64 {
	if b.Vset == 0 {
		return 1.0
	}
	return b.Vset
}
