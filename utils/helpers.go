package utils

// IsValidRange reports whether a chart range parameter is one the
// analytics endpoints accept.
func IsValidRange(timeRange string) bool {
	switch timeRange {
	case "24h", "7d", "30d":
		return true
	default:
		return false
	}
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
