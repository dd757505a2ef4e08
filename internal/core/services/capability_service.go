package services

import (
	"context"
	"sync"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/logger"
)

// CapabilityService resolves, once per process, which extensions the server
// can render thumbnails for, and broadcasts the result to subscribers.
type CapabilityService struct {
	catalog ports.Catalog

	once     sync.Once
	done     chan struct{}
	mu       sync.RWMutex
	current  domain.ExtensionSet
	resolved bool
	fallback bool
	subs     map[int]chan domain.ExtensionSet
	nextSub  int
}

// NewCapabilityService creates an unresolved capability holder
func NewCapabilityService(catalog ports.Catalog) *CapabilityService {
	return &CapabilityService{
		catalog: catalog,
		done:    make(chan struct{}),
		current: domain.NewExtensionSet(),
		subs:    make(map[int]chan domain.ExtensionSet),
	}
}

// Resolve fetches the known extensions the first time it is called and
// returns the resolved set. Later calls wait for and return the same set.
// Failures fall back to domain.DefaultThumbnailExtensions.
func (s *CapabilityService) Resolve(ctx context.Context) domain.ExtensionSet {
	s.once.Do(func() {
		set, fallback := s.fetch(ctx)
		s.publish(set, fallback)
	})
	<-s.done
	set, _ := s.Current()
	return set
}

// Start resolves in the background
func (s *CapabilityService) Start(ctx context.Context) {
	go s.Resolve(ctx)
}

func (s *CapabilityService) fetch(ctx context.Context) (domain.ExtensionSet, bool) {
	exts, err := s.catalog.KnownExtensions(ctx)
	if err != nil {
		logger.Warn(ctx, "could not fetch known extensions, using defaults", logger.Fields{
			"error":    err.Error(),
			"fallback": domain.DefaultThumbnailExtensions,
		})
		return domain.NewExtensionSet(domain.DefaultThumbnailExtensions...), true
	}

	set := domain.NewExtensionSet(exts...)
	logger.Debug(ctx, "known extensions resolved", logger.Fields{"count": set.Len()})
	return set, false
}

func (s *CapabilityService) publish(set domain.ExtensionSet, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = set
	s.resolved = true
	s.fallback = fallback
	for _, ch := range s.subs {
		deliver(ch, set)
	}
	close(s.done)
}

// deliver replaces whatever value is waiting in a subscriber channel
func deliver(ch chan domain.ExtensionSet, set domain.ExtensionSet) {
	select {
	case <-ch:
	default:
	}
	ch <- set
}

// Current returns the last known set and whether resolution has happened
func (s *CapabilityService) Current() (domain.ExtensionSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.resolved
}

// UsedFallback reports whether the resolved set is the built-in default
func (s *CapabilityService) UsedFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// Done is closed once the set is resolved
func (s *CapabilityService) Done() <-chan struct{} {
	return s.done
}

// Subscribe returns a channel that immediately holds the last known set and
// later receives the resolved one. The returned func unsubscribes.
func (s *CapabilityService) Subscribe() (<-chan domain.ExtensionSet, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.ExtensionSet, 1)
	ch <- s.current

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions
func (s *CapabilityService) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// HasThumbnail reports whether the server can render a thumbnail for item.
// Links and notes are checked by their icon extension, which the server never lists.
func (s *CapabilityService) HasThumbnail(item domain.Item) bool {
	set, _ := s.Current()
	return set.Contains(domain.IconExtension(item))
}
