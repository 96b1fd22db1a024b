package util

import (
	"math"
	"strconv"
)

// RoundPercent 返回 part/total*100 四舍五入后的整数，total 为 0 时返回 0
func RoundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*100*2 + total) / (2 * total)
}

// RoundTo 按 decimals 位小数四舍五入
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// ParseBoolDefault 解析查询参数中的布尔值，解析失败时返回默认值
func ParseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
