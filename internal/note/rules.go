package note

import "strings"

// defaultRules is the built-in catalog. Times are scaled down to the
// notebook's amendment windows.
var defaultRules = []string{
	"The human whose name is written in this note shall die.",
	"This note will not take effect unless the writer has the subject's face in mind when writing the name. Therefore, people sharing the same name will not be affected.",
	"If the cause of death is written within the next 40 milliseconds of writing the subject's name, it will happen.",
	"If the cause of death is not specified, the subject will simply die of a heart attack.",
	"After writing the cause of death, details of the death should be written within the next 6 seconds and 40 milliseconds.",
	"This note shall become the property of the human world, once it touches the ground of the human world.",
	"The owner of the note can recognize the image and voice of its original owner, a god of death.",
	"The human who uses this note can neither go to Heaven nor Hell.",
	"If the cause of death is possible but the situation is not, only the cause of death will take effect for that victim.",
	"Writing a name that is already in the note files it again and restarts both windows.",
	"The conditions of death will only be realized within the range that the subject could normally do.",
	"Even the original owner of the note cannot erase a name once it has been written.",
}

// Rulebook is an immutable, 1-indexed catalog of rules.
type Rulebook struct {
	rules []string
}

// DefaultRulebook returns the built-in catalog.
func DefaultRulebook() *Rulebook {
	return &Rulebook{rules: append([]string(nil), defaultRules...)}
}

// NewRulebook builds a catalog from rules, in order.
// Returns an ErrCodeInvalidArgument error if rules is empty or any rule is blank.
func NewRulebook(rules ...string) (*Rulebook, error) {
	if len(rules) == 0 {
		return nil, invalidArgument("", "a rulebook needs at least one rule")
	}
	for i, rule := range rules {
		if strings.TrimSpace(rule) == "" {
			return nil, invalidArgument("", "rule %d is blank", i+1)
		}
	}
	return &Rulebook{rules: append([]string(nil), rules...)}, nil
}

// Rule returns the index-th rule, counting from 1.
// Returns an ErrCodeInvalidArgument error if index is outside [1, Len()].
func (r *Rulebook) Rule(index int) (string, error) {
	if index < 1 || index > len(r.rules) {
		return "", invalidArgument("", "rule index %d does not exist (valid range 1..%d)", index, len(r.rules))
	}
	return r.rules[index-1], nil
}

// Len returns the number of rules.
func (r *Rulebook) Len() int {
	return len(r.rules)
}

// Rules returns a copy of all rules in order.
func (r *Rulebook) Rules() []string {
	return append([]string(nil), r.rules...)
}
