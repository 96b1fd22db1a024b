package util

import (
	"errors"
	"fmt"
)

// 错误分类，控制器根据分类映射 HTTP 状态码
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrModuleNotFound          = fmt.Errorf("module %w", ErrNotFound)
	ErrSectionNotFound         = fmt.Errorf("section %w", ErrNotFound)
	ErrQuestionNotFound        = fmt.Errorf("question %w", ErrNotFound)
	ErrQuizNotFound            = fmt.Errorf("quiz %w", ErrNotFound)
	ErrAttemptNotFound         = fmt.Errorf("attempt %w", ErrNotFound)
	ErrProgressNotFound        = fmt.Errorf("progress %w", ErrNotFound)
	ErrNoPendingAttempt        = fmt.Errorf("no pending attempt: %w", ErrNotFound)
	ErrAttemptAlreadySubmitted = fmt.Errorf("attempt already submitted: %w", ErrInvalidState)
	ErrAttemptNotCompleted     = fmt.Errorf("attempt not completed: %w", ErrInvalidState)
	ErrInvalidProgress         = fmt.Errorf("progress percentage must be within 0..100: %w", ErrInvalidArgument)
	ErrInvalidTimeSpent        = fmt.Errorf("time spent must not be negative: %w", ErrInvalidArgument)
	ErrDuplicateAnswer         = fmt.Errorf("question answered more than once: %w", ErrInvalidArgument)
	ErrInvalidQuizType         = fmt.Errorf("unknown quiz type: %w", ErrInvalidArgument)
)
