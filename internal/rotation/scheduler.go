package rotation

// Ad break defaults.
const (
	DefaultAdFrequency    = 3
	DefaultMinAdsPerBreak = 1
	DefaultMaxAdsPerBreak = 2
)

// AdConfig controls ad breaks. Frequency is the number of normal items
// between breaks; each break holds between MinPerBreak and MaxPerBreak ads.
type AdConfig struct {
	Enabled     bool `json:"enabled"`
	Frequency   int  `json:"frequency"`
	MinPerBreak int  `json:"min_per_break"`
	MaxPerBreak int  `json:"max_per_break"`
}

// DefaultAdConfig returns ads disabled with the default cadence.
func DefaultAdConfig() AdConfig {
	return AdConfig{
		Frequency:   DefaultAdFrequency,
		MinPerBreak: DefaultMinAdsPerBreak,
		MaxPerBreak: DefaultMaxAdsPerBreak,
	}
}

// Normalize clamps the configuration to valid values: frequency and minimum
// at least 1, maximum at least the minimum.
func (c AdConfig) Normalize() AdConfig {
	c.Frequency = max(c.Frequency, 1)
	c.MinPerBreak = max(c.MinPerBreak, 1)
	c.MaxPerBreak = max(c.MaxPerBreak, c.MinPerBreak)
	return c
}

// Slot is one dispensed item.
type Slot[T any] struct {
	Item T
	Ad   bool
}

// Status is a snapshot of the scheduler's counters.
type Status struct {
	Items       int      `json:"items"`
	PlayedCount int      `json:"played_count"`
	Ads         int      `json:"ads"`
	NormalPlays int      `json:"normal_plays"`
	PendingAds  int      `json:"pending_ads"`
	AdConfig    AdConfig `json:"ad_config"`
}

// Scheduler interleaves ad breaks into a Queue's rotation. After every
// Frequency normal items it plays a block of ads, avoiding the ads of the
// previous block when the pool is large enough.
type Scheduler[T any] struct {
	queue *Queue[T]
	rng   Rand
	cfg   AdConfig

	ads       []T
	pending   []T
	lastBlock map[int]struct{}

	normalPlays int
	// lastBreakAt is the normalPlays value at which the last break was
	// generated, so a drained break does not trigger again.
	lastBreakAt int
}

// NewScheduler creates a scheduler with an empty queue and ads disabled.
// A nil rng uses NewRand.
func NewScheduler[T any](rng Rand) *Scheduler[T] {
	if rng == nil {
		rng = NewRand()
	}
	return &Scheduler[T]{
		queue: NewQueue[T](rng),
		rng:   rng,
		cfg:   DefaultAdConfig(),
	}
}

// Queue returns the underlying rotation.
func (s *Scheduler[T]) Queue() *Queue[T] {
	return s.queue
}

// Load replaces the normal items and restarts the ad cadence.
func (s *Scheduler[T]) Load(items []T) {
	s.queue.Load(items)
	s.normalPlays = 0
	s.lastBreakAt = 0
	s.pending = nil
}

// Configure sets the ad cadence. Values are clamped; a break already in
// progress keeps its ads.
func (s *Scheduler[T]) Configure(frequency, minPerBreak, maxPerBreak int, enabled bool) {
	s.SetAdConfig(AdConfig{
		Enabled:     enabled,
		Frequency:   frequency,
		MinPerBreak: minPerBreak,
		MaxPerBreak: maxPerBreak,
	})
}

// SetAdConfig is Configure taking an AdConfig.
func (s *Scheduler[T]) SetAdConfig(cfg AdConfig) {
	s.cfg = cfg.Normalize()
}

// AdConfig returns the normalised ad configuration.
func (s *Scheduler[T]) AdConfig() AdConfig {
	return s.cfg
}

// LoadAds replaces the ad pool. A break already in progress keeps its ads.
func (s *Scheduler[T]) LoadAds(ads []T) {
	s.ads = append([]T(nil), ads...)
	s.lastBlock = nil
}

// ClearAds empties the ad pool and drops any break in progress.
func (s *Scheduler[T]) ClearAds() {
	s.ads = nil
	s.pending = nil
	s.lastBlock = nil
}

// Next returns the next slot: a pending ad, the first ad of a newly due
// break, or the next normal item. It returns false when nothing can play.
func (s *Scheduler[T]) Next() (Slot[T], bool) {
	for {
		if len(s.pending) > 0 {
			ad := s.pending[0]
			s.pending = s.pending[1:]
			return Slot[T]{Item: ad, Ad: true}, true
		}
		if !s.breakDue() {
			break
		}
		s.pending = s.generateBlock()
		s.lastBreakAt = s.normalPlays
	}

	item, ok := s.queue.Next()
	if !ok {
		return Slot[T]{}, false
	}
	s.normalPlays++
	return Slot[T]{Item: item}, true
}

func (s *Scheduler[T]) breakDue() bool {
	return s.cfg.Enabled &&
		len(s.ads) > 0 &&
		s.normalPlays > 0 &&
		s.normalPlays%s.cfg.Frequency == 0 &&
		s.normalPlays != s.lastBreakAt
}

// generateBlock picks the ads of one break. Ads from the previous break are
// excluded when the pool holds more than MaxPerBreak ads and enough remain;
// otherwise the whole pool is eligible.
func (s *Scheduler[T]) generateBlock() []T {
	count := s.cfg.MinPerBreak
	if spread := s.cfg.MaxPerBreak - s.cfg.MinPerBreak; spread > 0 {
		count += s.rng.IntN(spread + 1)
	}
	count = min(count, len(s.ads))

	all := make([]int, len(s.ads))
	for i := range all {
		all[i] = i
	}
	candidates := all
	if len(s.ads) > s.cfg.MaxPerBreak && len(s.lastBlock) > 0 {
		fresh := make([]int, 0, len(all))
		for _, i := range all {
			if _, recent := s.lastBlock[i]; !recent {
				fresh = append(fresh, i)
			}
		}
		if len(fresh) >= count {
			candidates = fresh
		}
	}
	shuffle(s.rng, candidates)

	block := make([]T, count)
	s.lastBlock = make(map[int]struct{}, count)
	for i, idx := range candidates[:count] {
		block[i] = s.ads[idx]
		s.lastBlock[idx] = struct{}{}
	}
	return block
}

// Previous steps back through the normal items. Ads are not part of the
// history.
func (s *Scheduler[T]) Previous() (T, bool) {
	return s.queue.Previous()
}

// Current returns the most recent normal item.
func (s *Scheduler[T]) Current() (T, bool) {
	return s.queue.Current()
}

// Clear empties the normal items and restarts the ad cadence. The ad pool
// is kept.
func (s *Scheduler[T]) Clear() {
	s.queue.Clear()
	s.normalPlays = 0
	s.lastBreakAt = 0
	s.pending = nil
}

// Status returns a snapshot of the scheduler's counters.
func (s *Scheduler[T]) Status() Status {
	return Status{
		Items:       s.queue.Len(),
		PlayedCount: s.queue.PlayedCount(),
		Ads:         len(s.ads),
		NormalPlays: s.normalPlays,
		PendingAds:  len(s.pending),
		AdConfig:    s.cfg,
	}
}
