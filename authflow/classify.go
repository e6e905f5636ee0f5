package authflow

import "strings"

// IsSamePasswordMessage classifies a provider password-update failure as "new
// password equals the old one" by inspecting the message text. The provider
// does not expose a structured code for this case, so the match is heuristic
// and deliberately kept in one place.
func IsSamePasswordMessage(msg string) bool {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "should be different") {
		return true
	}
	if strings.Contains(lower, "same as") {
		return true
	}
	return strings.Contains(lower, "different") && strings.Contains(lower, "password")
}
