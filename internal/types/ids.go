package types

import (
	"time"

	"github.com/google/uuid"
)

// NewRuleSetID generates a UUIDv7 rule-set identifier. UUIDv7 is
// time-ordered, so the most recent rule set is the lexicographic maximum.
func NewRuleSetID() RuleSetID {
	return RuleSetID(uuid.Must(uuid.NewV7()).String())
}

// ParseRuleSetID validates a string as a rule-set identifier.
func ParseRuleSetID(s string) (RuleSetID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RuleSetID(s), nil
}

// RuleSetIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns the zero time for invalid IDs.
func RuleSetIDTime(id RuleSetID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}
