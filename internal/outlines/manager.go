package outlines

import (
	"context"
	"errors"
	"sync"
)

// Manager looks characters up across several sources and keeps the results
// in memory. Sources are searched in reverse order (last added = highest
// priority).
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a manager with no sources.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddSource adds a source to the manager.
func (m *Manager) AddSource(s Source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
}

// Load implements Source. A source that does not know the character passes
// the lookup on; any other error stops the search.
func (m *Manager) Load(ctx context.Context, char string) (*Character, error) {
	// Check cache first
	if c, ok := m.cache.Get(char); ok {
		return c, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		c, err := m.sources[i].Load(ctx, char)
		if err == nil {
			m.cache.Set(char, c)
			return c, nil
		}
		if !errors.Is(err, ErrCharacterNotFound) {
			return nil, err
		}
	}

	return nil, &CharacterNotFoundError{Char: char}
}

// Close releases the memory cache and closes sources that hold resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, s := range m.sources {
		if c, ok := s.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	m.sources = nil
	m.cache.Clear()
	return errors.Join(errs...)
}

// Stats returns memory cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Cache is a simple in-memory cache for loaded characters.
type Cache struct {
	data map[string]*Character
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*Character),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*Character, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data *Character) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*Character)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
