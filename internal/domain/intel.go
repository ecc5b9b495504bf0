package domain

import "sort"

// Category names a kind of extracted scam indicator.
type Category string

const (
	CategoryPayment       Category = "paymentIdentifier"
	CategoryPhone         Category = "phoneNumber"
	CategoryBankAccount   Category = "bankAccount"
	CategoryPhishingLink  Category = "phishingLink"
	CategoryDomain        Category = "domain"
	CategoryProvider      Category = "provider"
	CategoryImpersonation Category = "impersonationFinding"
)

// Categories lists all indicator categories in serialization order.
var Categories = []Category{
	CategoryPayment,
	CategoryPhone,
	CategoryBankAccount,
	CategoryPhishingLink,
	CategoryDomain,
	CategoryProvider,
	CategoryImpersonation,
}

// Observation records when a normalized indicator value was seen.
type Observation struct {
	FirstTurn int `json:"firstTurn"`
	LastTurn  int `json:"lastTurn"`
}

// Fact is one normalized indicator produced by extraction, prior to merging.
type Fact struct {
	Category Category `json:"category"`
	Value    string   `json:"value"`
	Turn     int      `json:"turn"`
}

// Snapshot is the cumulative, deduplicated intelligence for a session.
// Category sets only ever grow: merging preserves the first-seen turn of a
// value and advances the last-seen turn.
type Snapshot map[Category]map[string]Observation

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return make(Snapshot)
}

// Merge folds facts into the snapshot. Merging an identical fact set twice
// yields the same snapshot as merging once.
func (s Snapshot) Merge(facts []Fact) {
	for _, f := range facts {
		if f.Value == "" {
			continue
		}
		values, ok := s[f.Category]
		if !ok {
			values = make(map[string]Observation)
			s[f.Category] = values
		}
		obs, seen := values[f.Value]
		if !seen {
			values[f.Value] = Observation{FirstTurn: f.Turn, LastTurn: f.Turn}
			continue
		}
		if f.Turn > obs.LastTurn {
			obs.LastTurn = f.Turn
			values[f.Value] = obs
		}
	}
}

// Has reports whether the category holds at least one value.
func (s Snapshot) Has(c Category) bool {
	return len(s[c]) > 0
}

// Values returns the values in a category, sorted for stable output.
func (s Snapshot) Values(c Category) []string {
	values := s[c]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FirstTurn returns the earliest first-observation turn across a category,
// or -1 if the category is empty.
func (s Snapshot) FirstTurn(c Category) int {
	first := -1
	for _, obs := range s[c] {
		if first == -1 || obs.FirstTurn < first {
			first = obs.FirstTurn
		}
	}
	return first
}

// Confirmed reports whether any value in the category was re-observed on a
// turn after its first sighting.
func (s Snapshot) Confirmed(c Category) bool {
	for _, obs := range s[c] {
		if obs.LastTurn > obs.FirstTurn {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing live session state.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for c, values := range s {
		cp := make(map[string]Observation, len(values))
		for v, obs := range values {
			cp[v] = obs
		}
		out[c] = cp
	}
	return out
}
