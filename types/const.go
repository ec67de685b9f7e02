package types

// 默认参数常量定义
const (
	Tolerance       = 1e-8 // 收敛容差（失配量无穷范数）
	MaxIterations   = 25   // 单次求解最大迭代次数
	MaxOuterLoops   = 10   // 外层控制循环（无功越限、分布式平衡）最大次数
	QLimitBand      = 1e-4 // PQ节点恢复PV时的电压带宽(p.u.)
	ZeroImpedance   = 1e-6 // 零阻抗支路附加的电抗(p.u.)，避免除零
	DivergenceLimit = 1e10 // 失配量超过该值视为发散
	Workers         = 0    // 并行求解孤岛数，0表示不限制
)

// 默认连接常量定义
const (
	NoIndex = -1 // 未映射的索引
)
