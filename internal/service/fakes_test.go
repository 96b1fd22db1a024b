package service

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/repository"
	"istqb_study_backend/internal/util"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"
)

type fakeContent struct {
	mu        sync.Mutex
	modules   map[string]*model.Module
	questions map[string]*model.Question
	quizzes   map[string]*model.Quiz
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		modules:   map[string]*model.Module{},
		questions: map[string]*model.Question{},
		quizzes:   map[string]*model.Quiz{},
	}
}

func (f *fakeContent) addModule(id string, sections int) *model.Module {
	m := &model.Module{Title: "module " + id}
	m.ID = id
	for i := 0; i < sections; i++ {
		s := model.Section{ModuleID: id, Order: i + 1}
		s.ID = id + "-s" + string(rune('a'+i))
		m.Sections = append(m.Sections, s)
	}
	f.modules[id] = m
	return m
}

// addQuestion 选项 a..d，correct 为正确选项下标，-1 表示没有正确选项
func (f *fakeContent) addQuestion(id string, correct int) *model.Question {
	q := &model.Question{Text: "question " + id, Explanation: "because " + id}
	q.ID = id
	for i := 0; i < 4; i++ {
		q.Options = append(q.Options, model.Option{
			ID:        string(rune('a' + i)),
			Text:      "option " + string(rune('a'+i)),
			IsCorrect: i == correct,
		})
	}
	f.questions[id] = q
	return q
}

func (f *fakeContent) addQuiz(q *model.Quiz) *model.Quiz {
	f.quizzes[q.ID] = q
	return q
}

func (f *fakeContent) GetModule(_ context.Context, id string) (*model.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.modules[id]
	if !ok {
		return nil, util.ErrModuleNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeContent) ListModules(_ context.Context) ([]model.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]model.Module, 0, len(f.modules))
	for _, m := range f.modules {
		list = append(list, *m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (f *fakeContent) CountModules(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.modules)), nil
}

func (f *fakeContent) CreateModule(_ context.Context, m *model.Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == "" {
		m.ID = model.NewID()
	}
	for i := range m.Sections {
		m.Sections[i].ModuleID = m.ID
		if m.Sections[i].ID == "" {
			m.Sections[i].ID = model.NewID()
		}
	}
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeContent) GetQuestion(_ context.Context, id string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeContent) ListQuestionsByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.Question{}
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			list = append(list, *q)
		}
	}
	return list, nil
}

func (f *fakeContent) GetQuiz(_ context.Context, id string) (*model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quizzes[id]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeContent) ListQuizzes(_ context.Context, moduleID string, quizType model.QuizType) ([]model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.Quiz{}
	for _, q := range f.quizzes {
		if moduleID != "" && (q.ModuleID == nil || *q.ModuleID != moduleID) {
			continue
		}
		if quizType != "" && q.QuizType != quizType {
			continue
		}
		list = append(list, *q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// fakeAttempts 条件完成与数据库的 WHERE is_completed = false 语义一致
type fakeAttempts struct {
	mu       sync.Mutex
	attempts map[string]*model.QuizAttempt
	seq      int
	order    map[string]int
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{attempts: map[string]*model.QuizAttempt{}, order: map[string]int{}}
}

func (f *fakeAttempts) CreateAttempt(_ context.Context, a *model.QuizAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = model.NewID()
	}
	f.seq++
	f.order[a.ID] = f.seq
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeAttempts) FindAttempt(_ context.Context, id string) (*model.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttempts) FindLatestPendingAttempt(_ context.Context, userID, quizID string) (*model.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID != userID || a.QuizID != quizID || a.IsCompleted {
			continue
		}
		if latest == nil || a.StartedAt.After(latest.StartedAt) ||
			(a.StartedAt.Equal(latest.StartedAt) && f.order[a.ID] > f.order[latest.ID]) {
			latest = a
		}
	}
	if latest == nil {
		return nil, util.ErrNoPendingAttempt
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeAttempts) CompleteAttempt(_ context.Context, a *model.QuizAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.attempts[a.ID]
	if !ok || stored.IsCompleted {
		return util.ErrAttemptAlreadySubmitted
	}
	cp := *a
	cp.IsCompleted = true
	f.attempts[a.ID] = &cp
	a.IsCompleted = true
	return nil
}

func (f *fakeAttempts) ListAttemptsByUser(_ context.Context, userID string) ([]model.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.QuizAttempt{}
	for _, a := range f.attempts {
		if a.UserID == userID {
			list = append(list, *a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartedAt.After(list[j].StartedAt) })
	return list, nil
}

// fakeProgress 故意不做原子读改写：读出副本、让出调度、再整体写回，
// 不加锁调用时并发更新会丢失
type fakeProgress struct {
	mu   sync.Mutex
	rows map[string]*model.UserProgress
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{rows: map[string]*model.UserProgress{}}
}

func clone(p *model.UserProgress) *model.UserProgress {
	cp := *p
	cp.SectionsCompleted = append(datatypes.JSONSlice[string]{}, p.SectionsCompleted...)
	return &cp
}

func (f *fakeProgress) UpsertProgress(_ context.Context, userID, moduleID string, mutate func(p *model.UserProgress) error) (*model.UserProgress, error) {
	key := userID + "/" + moduleID

	f.mu.Lock()
	var working *model.UserProgress
	if existing, ok := f.rows[key]; ok {
		working = clone(existing)
	} else {
		working = &model.UserProgress{UserID: userID, ModuleID: moduleID, SectionsCompleted: []string{}}
		working.ID = model.NewID()
	}
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	if err := mutate(working); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.rows[key] = clone(working)
	f.mu.Unlock()
	return working, nil
}

func (f *fakeProgress) FindProgress(_ context.Context, userID, moduleID string) (*model.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[userID+"/"+moduleID]
	if !ok {
		return nil, util.ErrProgressNotFound
	}
	return clone(p), nil
}

func (f *fakeProgress) ListProgress(_ context.Context, userID string) ([]model.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.UserProgress{}
	for _, p := range f.rows {
		if p.UserID == userID {
			list = append(list, *clone(p))
		}
	}
	return list, nil
}

type fakeDashboard struct {
	progress repository.ProgressSummary
	attempts repository.AttemptSummary
}

func (f *fakeDashboard) ProgressSummary(context.Context, string) (*repository.ProgressSummary, error) {
	p := f.progress
	return &p, nil
}

func (f *fakeDashboard) AttemptSummary(context.Context, string) (*repository.AttemptSummary, error) {
	a := f.attempts
	return &a, nil
}

// reverseRand 固定的随机源：总是返回倒序排列
type reverseRand struct{}

func (reverseRand) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = n - 1 - i
	}
	return p
}

// stepClock 每次调用前进一秒，保证开始时间严格递增
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}
