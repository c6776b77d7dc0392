package outlines

import (
	"fmt"
	"time"
)

// Options selects which sources back a Manager.
type Options struct {
	BaseURL   string        // remote payload server, empty disables HTTP
	DataDir   string        // local payload directory, empty disables it
	CachePath string        // SQLite cache in front of HTTP, empty disables it
	Timeout   time.Duration // per-request HTTP timeout
}

// Open builds a Manager from opts. The local directory takes priority over
// the network; the SQLite cache only fronts the HTTP source.
func Open(opts Options) (*Manager, error) {
	m := NewManager()

	if opts.BaseURL != "" {
		var remote Source = NewHTTPSource(opts.BaseURL, opts.Timeout)
		if opts.CachePath != "" {
			cache, err := OpenSQLiteCache(opts.CachePath, remote)
			if err != nil {
				return nil, fmt.Errorf("opening outline cache: %w", err)
			}
			remote = cache
		}
		m.AddSource(remote)
	}
	if opts.DataDir != "" {
		m.AddSource(DirSource{Dir: opts.DataDir})
	}
	return m, nil
}
