package portfolio

import "mcs-forecast/internal/simulation"

// InProgressFeatures counts the features the team has started but not finished.
func (p *Portfolio) InProgressFeatures(team *simulation.Team) int {
	count := 0
	for _, f := range p.Features {
		for _, w := range f.Work {
			if w.Team == team && w.RemainingItems > 0 && w.RemainingItems < w.TotalItems {
				count++
				break
			}
		}
	}
	return count
}

// WIPPolicy uses the configured FeatureWIP, except for teams that adjust it
// automatically: those run with as many features as they currently have in progress.
func (p *Portfolio) WIPPolicy() simulation.WIPPolicy {
	return simulation.WIPPolicyFunc(func(team *simulation.Team) int {
		if !team.AutomaticallyAdjustFeatureWIP {
			return team.FeatureWIP
		}
		return p.InProgressFeatures(team)
	})
}
