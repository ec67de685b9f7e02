package types

// Injection 母线注入（发电为正，负荷为负），ZIP模型
type Injection struct {
	ID            string  `json:"id" yaml:"id"`
	Bus           int     `json:"bus" yaml:"bus"`
	P             float64 `json:"p" yaml:"p"`       // 恒功率有功(p.u.)
	Q             float64 `json:"q" yaml:"q"`       // 恒功率无功(p.u.)
	IRe           float64 `json:"i_re" yaml:"i_re"` // 恒电流有功，1 p.u.电压下(p.u.)
	IIm           float64 `json:"i_im" yaml:"i_im"` // 恒电流无功，1 p.u.电压下(p.u.)
	G             float64 `json:"g" yaml:"g"`       // 恒阻抗有功，1 p.u.电压下(p.u.)
	B             float64 `json:"b" yaml:"b"`       // 恒阻抗无功，1 p.u.电压下(p.u.)
	Active        bool    `json:"active" yaml:"active"`
	Controllable  bool    `json:"controllable" yaml:"controllable"`   // 发电机（参与无功限值与分布式平衡）
	Participation float64 `json:"participation" yaml:"participation"` // 分布式平衡参与因子
}

// Power 恒功率分量
func (in *Injection) Power() complex128 { return complex(in.P, in.Q) }

// Current 恒电流分量
func (in *Injection) Current() complex128 { return complex(in.IRe, in.IIm) }

// Admittance 恒阻抗分量
func (in *Injection) Admittance() complex128 { return complex(in.G, in.B) }

// HvdcLine 直流输电线路，按一对功率注入建模
type HvdcLine struct {
	ID         string  `json:"id" yaml:"id"`
	From       int     `json:"from" yaml:"from"`
	To         int     `json:"to" yaml:"to"`
	Pset       float64 `json:"pset" yaml:"pset"`               // 首端送出有功(p.u.)
	LossFactor float64 `json:"loss_factor" yaml:"loss_factor"` // 损耗系数(0~1)
	Active     bool    `json:"active" yaml:"active"`
}

// Received 末端受入有功
func (h *HvdcLine) Received() float64 { return h.Pset * (1 - h.LossFactor) }
