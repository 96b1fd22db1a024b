package service

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"istqb_study_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type QuizService struct {
	Content ContentReader
	Rand    Randomizer
}

func NewQuizService(content ContentReader, r Randomizer) *QuizService {
	if r == nil {
		r = DefaultRandomizer()
	}
	return &QuizService{Content: content, Rand: r}
}

// QuizSummary 不包含题目和答案
type QuizSummary struct {
	ID                     string         `json:"id"`
	Title                  string         `json:"title"`
	Description            string         `json:"description"`
	ModuleID               *string        `json:"moduleId"`
	QuizType               model.QuizType `json:"quizType"`
	TotalQuestions         int            `json:"totalQuestions"`
	TimeLimit              *int           `json:"timeLimit,omitempty"`
	PassingScore           int            `json:"passingScore"`
	RandomizeQuestions     bool           `json:"randomizeQuestions"`
	RandomizeOptions       bool           `json:"randomizeOptions"`
	ShowResultsImmediately bool           `json:"showResultsImmediately"`
}

func summarize(q *model.Quiz) QuizSummary {
	return QuizSummary{
		ID:                     q.ID,
		Title:                  q.Title,
		Description:            q.Description,
		ModuleID:               q.ModuleID,
		QuizType:               q.QuizType,
		TotalQuestions:         len(q.QuestionIDs),
		TimeLimit:              q.TimeLimit,
		PassingScore:           q.PassingScore,
		RandomizeQuestions:     q.RandomizeQuestions,
		RandomizeOptions:       q.RandomizeOptions,
		ShowResultsImmediately: q.ShowResultsImmediately,
	}
}

type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion 作答前下发的题目，不含正确答案和解析
type PublicQuestion struct {
	ID         string           `json:"id"`
	ModuleID   string           `json:"moduleId"`
	SectionID  *string          `json:"sectionId,omitempty"`
	Text       string           `json:"text"`
	Options    []PublicOption   `json:"options"`
	Difficulty model.Difficulty `json:"difficulty"`
	Topic      string           `json:"topic"`
}

type QuizQuestions struct {
	Quiz      QuizSummary      `json:"quiz"`
	Questions []PublicQuestion `json:"questions"`
}

func sanitize(q model.Question, r Randomizer, shuffleOptions bool) PublicQuestion {
	opts := Reorder(r, []model.Option(q.Options), shuffleOptions)
	public := make([]PublicOption, len(opts))
	for i, o := range opts {
		public[i] = PublicOption{ID: o.ID, Text: o.Text}
	}
	return PublicQuestion{
		ID:         q.ID,
		ModuleID:   q.ModuleID,
		SectionID:  q.SectionID,
		Text:       q.Text,
		Options:    public,
		Difficulty: q.Difficulty,
		Topic:      q.Topic,
	}
}

// ListQuizzes quizType 为空表示不按类型过滤
func (s *QuizService) ListQuizzes(ctx context.Context, moduleID string, quizType model.QuizType) ([]QuizSummary, error) {
	if quizType != "" && !quizType.Valid() {
		return nil, util.ErrInvalidQuizType
	}
	quizzes, err := s.Content.ListQuizzes(ctx, moduleID, quizType)
	if err != nil {
		return nil, err
	}
	list := make([]QuizSummary, len(quizzes))
	for i := range quizzes {
		list[i] = summarize(&quizzes[i])
	}
	return list, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*QuizSummary, error) {
	quiz, err := s.Content.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := summarize(quiz)
	return &summary, nil
}

// GetQuizQuestions randomize 为调用方开关，只有测验自身也开启随机时才生效
func (s *QuizService) GetQuizQuestions(ctx context.Context, quizID string, randomize bool) (result *QuizQuestions, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizService.GetQuizQuestions",
		attribute.String("quiz.id", quizID),
		attribute.Bool("randomize", randomize))
	defer func() { tracing.EndSpan(span, err) }()

	quiz, err := s.Content.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Content.ListQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}

	ordered := Reorder(s.Rand, questions, randomize && quiz.RandomizeQuestions)
	shuffleOptions := randomize && quiz.RandomizeOptions

	public := make([]PublicQuestion, len(ordered))
	for i, q := range ordered {
		public[i] = sanitize(q, s.Rand, shuffleOptions)
	}

	return &QuizQuestions{Quiz: summarize(quiz), Questions: public}, nil
}
