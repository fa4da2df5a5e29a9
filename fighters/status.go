package fighters

import "fmt"

// KnownStatuses lists the status ids the engine recognizes. Content may
// only reference these; anything else is a content error.
var KnownStatuses = []string{"poison", "stun", "burn", "chill", "regen", "shielded", "exposed"}

// Status is a named, stackable, timed effect distinct from a Buff: it has
// no direct stat amount, only a stack count a handler may interpret.
type Status struct {
	ID       string `json:"id"`
	Stacks   int    `json:"stacks"`
	Duration int    `json:"duration"`
}

func (s Status) Validate() error {
	known := false
	for _, k := range KnownStatuses {
		if k == s.ID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("fighters: unknown status id %q", s.ID)
	}
	if s.Stacks < 0 {
		return fmt.Errorf("fighters: status.stacks must be >= 0, got %d", s.Stacks)
	}
	if s.Duration < -1 {
		return fmt.Errorf("fighters: status.duration must be >= -1, got %d", s.Duration)
	}
	return nil
}

func (s Status) IsInfinite() bool { return s.Duration == -1 }
