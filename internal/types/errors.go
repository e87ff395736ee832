package types

import "errors"

// Sentinel errors for dumpscrub operations.
var (
	// ErrNoRuleSets indicates the rule store contains no rule sets.
	ErrNoRuleSets = errors.New("no rule sets stored")

	// ErrRuleSetNotFound indicates the requested rule-set ID does not exist.
	ErrRuleSetNotFound = errors.New("rule set not found")

	// ErrNoRulesSource indicates neither a rules file nor a database URL
	// was configured for a run that needs rules.
	ErrNoRulesSource = errors.New("no rules source configured (set rules_file or db_url)")
)
