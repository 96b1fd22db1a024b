package util

// 查询参数
const (
	QueryRandomize = "randomize"
	QueryModuleID  = "moduleId"
	QueryQuizType  = "type"
	QueryToken     = "token"
)

// ContextUserKey gin.Context 中保存 *Claims 的键
const ContextUserKey = "user"

const (
	MaxPercentage = 100
)
