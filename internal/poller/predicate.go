package poller

import (
	"regexp"

	"craftybot/internal/gateway/crafty"
)

// Predicate decides whether a snapshot satisfies a session.
type Predicate func(crafty.StatusSnapshot) bool

// Running is satisfied once the panel reports the process as running.
func Running(s crafty.StatusSnapshot) bool { return s.Running }

// Stopped is satisfied once the panel reports the process as not running.
func Stopped(s crafty.StatusSnapshot) bool { return !s.Running }

// ReadyMarker is satisfied when any log line matches re. Matching is case
// sensitive and the scan stops at the first hit.
func ReadyMarker(re *regexp.Regexp) Predicate {
	return func(s crafty.StatusSnapshot) bool {
		if re == nil {
			return false
		}
		for _, line := range s.LogTail {
			if re.MatchString(line) {
				return true
			}
		}
		return false
	}
}
