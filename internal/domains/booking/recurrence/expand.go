package recurrence

import (
	"fieldbook/shared/model"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Occurrence is one concrete day of a rule with the rule's time window applied.
type Occurrence struct {
	Date  time.Time
	Start model.Clock
	End   model.Clock
}

// Expand returns every occurrence of rule in ascending date order. A valid rule whose weekdays
// never fall inside its range yields an empty slice; callers decide whether that is an error.
func Expand(rule Rule) ([]Occurrence, error) {
	return ExpandAtMost(rule, 0)
}

// ExpandAtMost is Expand with an upper bound on the number of occurrences. limit <= 0 means no bound.
func ExpandAtMost(rule Rule, limit int) ([]Occurrence, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	set, err := rrule.NewRRule(rule.options())
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence: %w", err)
	}

	occurrences := []Occurrence{}
	next := set.Iterator()

	for day, ok := next(); ok; day, ok = next() {
		if limit > 0 && len(occurrences) == limit {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyOccurrences, limit)
		}

		occurrences = append(occurrences, Occurrence{
			Date:  model.Date(day),
			Start: rule.StartTime,
			End:   rule.EndTime,
		})
	}

	return occurrences, nil
}
