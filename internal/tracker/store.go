package tracker

// statsStore is a map that remembers the order in which keys were first
// inserted. It is not safe for concurrent use.
type statsStore struct {
	order  []string
	byName map[string]ActivityStats
}

func newStatsStore() *statsStore {
	return &statsStore{byName: make(map[string]ActivityStats)}
}

func (s *statsStore) get(name string) (ActivityStats, bool) {
	stats, ok := s.byName[name]
	return stats, ok
}

func (s *statsStore) put(name string, stats ActivityStats) {
	if _, ok := s.byName[name]; !ok {
		s.order = append(s.order, name)
	}
	s.byName[name] = stats
}

func (s *statsStore) len() int {
	return len(s.order)
}

// each visits entries in first-seen order.
func (s *statsStore) each(fn func(name string, stats ActivityStats)) {
	for _, name := range s.order {
		fn(name, s.byName[name])
	}
}
