package memory

import (
	"sync"

	"survey-service/internal/app"
)

// FeedStore is an in-memory implementation of app.FeedRepository.
type FeedStore struct {
	mu    sync.RWMutex
	feeds map[int64]*app.Feed
}

func NewFeedStore() *FeedStore {
	return &FeedStore{
		feeds: make(map[int64]*app.Feed),
	}
}

func (s *FeedStore) GetOrCreate(surveyID int64) *app.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	if feed, ok := s.feeds[surveyID]; ok {
		return feed
	}
	feed := app.NewFeed()
	s.feeds[surveyID] = feed
	return feed
}

func (s *FeedStore) Get(surveyID int64) (*app.Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed, ok := s.feeds[surveyID]
	return feed, ok
}

func (s *FeedStore) DeleteIfEmpty(surveyID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	feed, ok := s.feeds[surveyID]
	if !ok {
		return
	}
	if feed.IsEmpty() {
		delete(s.feeds, surveyID)
	}
}
