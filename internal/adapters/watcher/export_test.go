package watcher

// HasHandle reports whether w currently holds an fsnotify handle.
func HasHandle(w *Watcher) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsWatcher != nil
}
