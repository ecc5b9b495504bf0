// Package engage holds the pure engagement policy: which goal to pursue
// next and when to stop.
package engage

import "github.com/varunhm/honeynet/internal/domain"

// SelectGoal maps an extraction snapshot to the next conversational goal.
//
// Fixed priority, first match wins. The function is total and pure: the
// same snapshot always yields the same goal, which keeps every engagement
// replayable from the extraction history alone.
func SelectGoal(snapshot domain.Snapshot) domain.Goal {
	switch {
	case !snapshot.Has(domain.CategoryPayment):
		return domain.GoalRequestPayment
	case !snapshot.Has(domain.CategoryPhone):
		return domain.GoalRequestContact
	case !snapshot.Confirmed(domain.CategoryPayment):
		return domain.GoalConfirmPayment
	default:
		return domain.GoalSustain
	}
}
