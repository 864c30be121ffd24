package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"survey-service/internal/app"
)

const touchTimeout = 2 * time.Second

// FeedStore is a Redis-aware implementation of app.FeedRepository.
// Feeds and their subscribers live in process; Redis holds a liveness key
// per watched survey (survey:feed:{id}) so other instances and operators can
// see which result feeds are open. The key is refreshed on every lookup,
// after the feed lock is released and under a short timeout.
type FeedStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	feeds  map[int64]*app.Feed
}

func NewFeedStore(client *redis.Client, ttl time.Duration) *FeedStore {
	return &FeedStore{
		client: client,
		ttl:    ttl,
		feeds:  make(map[int64]*app.Feed),
	}
}

func (s *FeedStore) GetOrCreate(surveyID int64) *app.Feed {
	s.mu.Lock()
	feed, ok := s.feeds[surveyID]
	if !ok {
		feed = app.NewFeed()
		s.feeds[surveyID] = feed
	}
	s.mu.Unlock()

	s.touch(surveyID)
	return feed
}

func (s *FeedStore) Get(surveyID int64) (*app.Feed, bool) {
	s.mu.RLock()
	feed, ok := s.feeds[surveyID]
	s.mu.RUnlock()

	if ok {
		s.touch(surveyID)
	}
	return feed, ok
}

func (s *FeedStore) DeleteIfEmpty(surveyID int64) {
	s.mu.Lock()
	feed, ok := s.feeds[surveyID]
	if !ok || !feed.IsEmpty() {
		s.mu.Unlock()
		return
	}
	delete(s.feeds, surveyID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	_ = s.client.Del(ctx, feedKey(surveyID)).Err()
}

// best-effort
func (s *FeedStore) touch(surveyID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	_ = s.client.Set(ctx, feedKey(surveyID), "1", s.ttl).Err()
}

func feedKey(surveyID int64) string {
	return "survey:feed:" + strconv.FormatInt(surveyID, 10)
}
