package domain

// Cache keys used in the key-value store.
const (
	KeyCachedTours  = "cachedTours"
	KeyCachedColors = "cachedColors"
	KeyCachedConfig = "cachedConfig"
	KeyTheme        = "theme"
	KeyCustomColors = "customColors"

	// KeyCompletedPrefix prefixes the per-tour completion marker.
	KeyCompletedPrefix = "tour_completed_"
)

// CompletionKey returns the store key holding the completion marker of a tour.
func CompletionKey(tourID string) string {
	return KeyCompletedPrefix + tourID
}

// Defaults applied when a tour leaves a setting unset.
const (
	DefaultSpotlightPadding = 8
	DefaultOverlayOpacity   = 0.75
)
