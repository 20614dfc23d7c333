// Package align 实现旁白文本与识别词时间戳的对齐与切分算法。
//
// 包内全部函数都是纯函数：不做I/O，不持有共享状态，可以被任意数量的
// 调用方并发使用。脚本文本与识别文本允许不一致（识别器听错词、丢助词
// 等），对齐基于字符数比例而非逐词匹配，因此能平滑退化。
package align

const (
	// WordJitterWindowMs 选取段落/场景内词时间戳时的边界容差（毫秒），
	// 用于吸收识别器段落边界与词边界之间的抖动
	WordJitterWindowMs = 200

	// SceneDurationTolerance 场景时长容差系数，
	// 场景时长超过 目标时长*该系数 时才会被拆分
	SceneDurationTolerance = 1.3
)
