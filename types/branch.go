package types

// ControlMode 支路控制方式
// 线路、变压器和换流器共享同一组方程，只有控制方式不同
type ControlMode int

// 支路控制方式常量定义
const (
	ControlFixed   ControlMode = iota // 不控制
	ControlVf                         // 控制首端电压幅值
	ControlVt                         // 控制末端电压幅值
	ControlPf                         // 控制首端有功
	ControlQf                         // 控制首端无功
	ControlQt                         // 控制末端无功
	ControlPfDroop                    // 首端有功-电压下垂控制
	ControlPfVt                       // 首端有功 + 末端电压
	ControlPfQt                       // 首端有功 + 末端无功
)

var controlModeString = map[ControlMode]string{
	ControlFixed:   "Fixed",
	ControlVf:      "Vf",
	ControlVt:      "Vt",
	ControlPf:      "Pf",
	ControlQf:      "Qf",
	ControlQt:      "Qt",
	ControlPfDroop: "PfDroop",
	ControlPfVt:    "PfVt",
	ControlPfQt:    "PfQt",
}

// String 返回控制方式的字符串表示
func (c ControlMode) String() string {
	if s, ok := controlModeString[c]; ok {
		return s
	}
	return "Unknown"
}

// Valid 判断控制方式是否已定义
func (c ControlMode) Valid() bool {
	_, ok := controlModeString[c]
	return ok
}

// BranchKind 支路模型类别，仅用于报告
type BranchKind int

// 支路模型类别常量定义
const (
	KindLine BranchKind = iota
	KindTransformer
	KindConverter
	KindSwitch
)

var branchKindString = map[BranchKind]string{
	KindLine:        "Line",
	KindTransformer: "Transformer",
	KindConverter:   "Converter",
	KindSwitch:      "Switch",
}

// String 返回支路类别的字符串表示
func (k BranchKind) String() string {
	if s, ok := branchKindString[k]; ok {
		return s
	}
	return "Unknown"
}

// Branch 统一支路模型
type Branch struct {
	ID        string      `json:"id" yaml:"id"`                 // 名称
	From      int         `json:"from" yaml:"from"`             // 首端母线索引
	To        int         `json:"to" yaml:"to"`                 // 末端母线索引
	R         float64     `json:"r" yaml:"r"`                   // 串联电阻(p.u.)
	X         float64     `json:"x" yaml:"x"`                   // 串联电抗(p.u.)
	G         float64     `json:"g" yaml:"g"`                   // 总并联电导(p.u.)
	B         float64     `json:"b" yaml:"b"`                   // 总并联电纳(p.u.)
	TapModule float64     `json:"tap_module" yaml:"tap_module"` // 变比幅值，0表示1.0
	TapAngle  float64     `json:"tap_angle" yaml:"tap_angle"`   // 变比相角(rad)
	K2        float64     `json:"k2" yaml:"k2"`                 // 换流器调制系数，0表示1.0
	Beq       float64     `json:"beq" yaml:"beq"`               // 换流器等效电纳（损耗项）
	Control   ControlMode `json:"control" yaml:"control"`       // 控制方式
	Kind      BranchKind  `json:"kind" yaml:"kind"`             // 模型类别
	Rate      float64     `json:"rate" yaml:"rate"`             // 额定容量(p.u.)
	Active    bool        `json:"active" yaml:"active"`         // 投运标记
	Monitor   bool        `json:"monitor" yaml:"monitor"`       // 监视负载率
	Pset      float64     `json:"pset" yaml:"pset"`             // 有功设定值
	Qset      float64     `json:"qset" yaml:"qset"`             // 无功设定值
	Vset      float64     `json:"vset" yaml:"vset"`             // 电压设定值
	Kdp       float64     `json:"kdp" yaml:"kdp"`               // 下垂系数
}

// Module 得到有效的变比幅值
func (b *Branch) Module() float64 {
	if b.TapModule == 0 {
		return 1.0
	}
	return b.TapModule
}

// Modulation 得到有效的调制系数
func (b *Branch) Modulation() float64 {
	if b.K2 == 0 {
		return 1.0
	}
	return b.K2
}

// VoltageSetPoint 得到电压控制设定值，0表示1.0
func (b *Branch) VoltageSetPoint() float64 {
	if b.Vset == 0 {
		return 1.0
	}
	return b.Vset
}
