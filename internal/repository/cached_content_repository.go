package repository

import (
	"context"
	"encoding/json"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cachePrefix       = "content:"
	modulesCacheKey   = cachePrefix + "modules"
	moduleKeyPrefix   = cachePrefix + "module:"
	questionKeyPrefix = cachePrefix + "question:"
	quizKeyPrefix     = cachePrefix + "quiz:"
)

// CachedContentRepository 内容只读，使用 Redis 做 cache-aside，Redis 故障时直接读库
type CachedContentRepository struct {
	*ContentRepository
	Redis redis.Cmdable
	TTL   time.Duration
}

func NewCachedContentRepository(repo *ContentRepository, rdb redis.Cmdable, ttl time.Duration) *CachedContentRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedContentRepository{ContentRepository: repo, Redis: rdb, TTL: ttl}
}

func (r *CachedContentRepository) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := r.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Content cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Log.Warn("Content cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CachedContentRepository) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, key, data, r.TTL).Err(); err != nil {
		logger.Log.Warn("Content cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedContentRepository) GetModule(ctx context.Context, id string) (*model.Module, error) {
	key := moduleKeyPrefix + id
	var m model.Module
	if r.get(ctx, key, &m) {
		return &m, nil
	}
	module, err := r.ContentRepository.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, module)
	return module, nil
}

func (r *CachedContentRepository) ListModules(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	if r.get(ctx, modulesCacheKey, &modules) {
		return modules, nil
	}
	modules, err := r.ContentRepository.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	r.set(ctx, modulesCacheKey, modules)
	return modules, nil
}

func (r *CachedContentRepository) CreateModule(ctx context.Context, m *model.Module) error {
	if err := r.ContentRepository.CreateModule(ctx, m); err != nil {
		return err
	}
	if err := r.Redis.Del(ctx, modulesCacheKey).Err(); err != nil {
		logger.Log.Warn("Content cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (r *CachedContentRepository) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	key := questionKeyPrefix + id
	var q model.Question
	if r.get(ctx, key, &q) {
		return &q, nil
	}
	question, err := r.ContentRepository.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, question)
	return question, nil
}

// ListQuestionsByIDs 先批量 MGET，缺失的再回源一次
func (r *CachedContentRepository) ListQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = questionKeyPrefix + id
	}

	cached := make(map[string]model.Question, len(ids))
	values, err := r.Redis.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Log.Warn("Content cache read failed", zap.Error(err))
	} else {
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			var q model.Question
			if json.Unmarshal([]byte(s), &q) == nil {
				cached[ids[i]] = q
			}
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		loaded, err := r.ContentRepository.ListQuestionsByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, q := range loaded {
			cached[q.ID] = q
			r.set(ctx, questionKeyPrefix+q.ID, q)
		}
	}

	result := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := cached[id]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

func (r *CachedContentRepository) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	key := quizKeyPrefix + id
	var q model.Quiz
	if r.get(ctx, key, &q) {
		return &q, nil
	}
	quiz, err := r.ContentRepository.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, quiz)
	return quiz, nil
}
