package memory

func (s *Store) responseCount() (headers, details int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses), len(s.details)
}

func (s *Store) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
