package scheduler

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
)

// CacheJanitor periodically prunes expired entries from the on-disk HTTP
// response cache so the cache directory stays bounded.
type CacheJanitor struct {
	scheduler *gocron.Scheduler
	dir       string
	ttl       time.Duration
	interval  time.Duration
}

// NewCacheJanitor creates a janitor for the given cache directory. Entries
// older than ttl are removed on every sweep.
func NewCacheJanitor(dir string, ttl, interval time.Duration) *CacheJanitor {
	s := gocron.NewScheduler(time.UTC)
	return &CacheJanitor{
		scheduler: s,
		dir:       dir,
		ttl:       ttl,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (j *CacheJanitor) Start() error {
	minutes := int(j.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := j.scheduler.Every(minutes).Minutes().Do(func() {
		removed, err := j.Sweep()
		if err != nil {
			log.Printf("cache janitor: sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("cache janitor: removed %d expired cache entries", removed)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Sweep walks the cache directory once and deletes files whose modification
// time predates the TTL. A cached response past its TTL would be revalidated
// on next use anyway, so removal is always safe.
func (j *CacheJanitor) Sweep() (int, error) {
	cutoff := time.Now().Add(-j.ttl)
	removed := 0

	err := filepath.WalkDir(j.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// A missing directory just means nothing has been cached yet.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})

	return removed, err
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *CacheJanitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
