package types

import "errors"

// 错误定义，调用方通过 errors.Is 判断
var (
	// ErrConfiguration 求解参数非法，在求解开始前校验，终止整个计算
	ErrConfiguration = errors.New("gridcal: invalid power flow options")
	// ErrInvalidNetwork 网络描述非法（索引越界、非有限数值等），终止整个计算
	ErrInvalidNetwork = errors.New("gridcal: invalid network description")
	// ErrTopology 孤岛既无平衡节点也无PV节点，该孤岛按零结果处理，不终止计算
	ErrTopology = errors.New("gridcal: island has no slack and no pv candidate")
	// ErrNumeric 雅可比矩阵奇异或分解失败，触发备用算法或报告不收敛
	ErrNumeric = errors.New("gridcal: numeric failure in linear solve")
)
