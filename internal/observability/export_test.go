package observability

import "sync"

// resetLogger clears the global logger so tests can initialise it again
func resetLogger() {
	globalLogger.Store(nil)
	once = sync.Once{}
}
