package utils

import "fmt"

// Prefix for anonymized leaderboard names.
const AnonNamePrefix = "Muhsin"

// AnonymizeName builds the privacy label shown instead of another user's
// real name on the leaderboard. The suffix is derived from the numeric user
// id (Knuth multiplicative hash) so it is stable per user without exposing
// the id itself.
func AnonymizeName(userID uint) string {
	suffix := (uint64(userID) * 2654435761) % 10000
	return fmt.Sprintf("%s-%04d", AnonNamePrefix, suffix)
}
