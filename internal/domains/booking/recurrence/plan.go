package recurrence

// Plan is the decision, made once at the request boundary, of whether a booking is written
// as a single instance or expanded from a rule.
type Plan struct {
	rule *Rule
}

func Single() Plan {
	return Plan{}
}

func Recurring(rule Rule) Plan {
	return Plan{rule: &rule}
}

func (p Plan) IsRecurring() bool {
	return p.rule != nil
}

// Rule returns the plan's rule and whether there is one.
func (p Plan) Rule() (Rule, bool) {
	if p.rule == nil {
		return Rule{}, false
	}

	return *p.rule, true
}
