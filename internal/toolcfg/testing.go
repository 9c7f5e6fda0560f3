package toolcfg

// Reset clears the process-wide configuration so the next Init succeeds.
// It exists for tests that exercise initialization; production code never
// re-configures.
func Reset() {
	current.Store(nil)
}
