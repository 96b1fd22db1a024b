package service

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer 随机源，测试中可替换为固定排列
type Randomizer interface {
	Perm(n int) []int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandomizer(seed int64) Randomizer {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func DefaultRandomizer() Randomizer {
	return NewRandomizer(time.Now().UnixNano())
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

// Reorder 返回新切片，shuffle 为 false 时保持原顺序
func Reorder[T any](r Randomizer, items []T, shuffle bool) []T {
	out := make([]T, len(items))
	if !shuffle || len(items) < 2 {
		copy(out, items)
		return out
	}
	for i, p := range r.Perm(len(items)) {
		out[i] = items[p]
	}
	return out
}
