package registry

import (
	"context"
	"os"
	"time"
)

// startWatcher launches the background goroutine that polls the models
// directory on an interval, the same sleep-and-rescan approach the original
// registry used rather than a filesystem notification API, which keeps
// behavior identical across platforms.
func (r *Registry) startWatcher() {
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	interval := r.watch
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		defer close(r.doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.checkForChanges()
			}
		}
	}()
}

func (r *Registry) stopWatcher() {
	if r.stopCh == nil {
		return
	}
	close(r.stopCh)
	<-r.doneCh
	r.stopCh = nil
	r.doneCh = nil
}

// checkForChanges re-scans the directory for new or modified files and
// detects removed ones, loading/unloading as needed. Each load still goes
// through the same per-name lock as an explicit Reload call.
func (r *Registry) checkForChanges() {
	ctx := context.Background()
	paths, err := scanDir(r.dir)
	if err != nil {
		r.log.Warn().Err(err).Msg("watcher: rescan failed")
		return
	}

	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		name := nameFromPath(path)
		seen[name] = struct{}{}

		st, err := os.Stat(path)
		if err != nil {
			continue
		}

		r.mu.RLock()
		e, known := r.entries[name]
		r.mu.RUnlock()

		if !known || !st.ModTime().Equal(e.modTime) {
			if err := r.load(ctx, name, path); err != nil {
				r.log.Warn().Str("model", name).Err(err).Msg("watcher: reload failed")
			}
		}
	}

	r.mu.Lock()
	for name, e := range r.entries {
		if _, ok := seen[name]; ok {
			continue
		}
		if e.handle != nil {
			_ = e.handle.Close()
		}
		delete(r.entries, name)
		r.log.Info().Str("model", name).Msg("model file removed, unloaded")
	}
	r.mu.Unlock()
}
