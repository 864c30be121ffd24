package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"survey-service/internal/domain"
)

// QuestionLoader fetches a survey's questions from the backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, surveyID int64) ([]domain.Question, error)
}

// QuestionRepository caches question catalogs with TTL to avoid repeated DB hits.
// Catalogs never change once a survey exists, so a hit is never stale; load
// errors (including unknown surveys) are not cached.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int64]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestions),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, surveyID int64) ([]domain.Question, error) {
	if questions, ok := r.lookup(surveyID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(strconv.FormatInt(surveyID, 10), func() (interface{}, error) {
		if questions, ok := r.lookup(surveyID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, surveyID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[surveyID] = cachedQuestions{
			questions: questions,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) lookup(surveyID int64) ([]domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[surveyID]; ok && entry.expiresAt.After(now) {
		return entry.questions, true
	}
	return nil, false
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
