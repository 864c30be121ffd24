package app

import (
	"sync"

	"survey-service/internal/domain"
)

// Feed fans out fresh reports of one survey to live subscribers.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.SurveyReport]struct{}
}

// NewFeed is exported for infrastructure layers that track feeds.
func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[chan domain.SurveyReport]struct{}),
	}
}

// IsEmpty reports whether the feed has no subscribers.
func (f *Feed) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) == 0
}

func (f *Feed) subscribe(initial domain.SurveyReport) (<-chan domain.SurveyReport, func()) {
	ch := make(chan domain.SurveyReport, 4)
	ch <- initial

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if _, ok := f.subscribers[ch]; ok {
				delete(f.subscribers, ch)
				close(ch)
			}
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

func (f *Feed) broadcast(report domain.SurveyReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- report:
		default:
			// Slow subscriber: drop its oldest report so the newest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- report
		}
	}
}
