package simulation

// Team is a delivery team as supplied by the caller. The engine only reads it.
type Team struct {
	ID                            string
	Name                          string
	FeatureWIP                    int
	AutomaticallyAdjustFeatureWIP bool
	Throughput                    Throughput
}

// FeatureWork is one team's share of a feature.
type FeatureWork struct {
	Team           *Team
	RemainingItems int
	TotalItems     int
}

// Feature is a work item tracked across one or more teams. Lower Order means higher priority.
type Feature struct {
	ID    string
	Name  string
	Order int
	Work  []FeatureWork
}

// RemainingItems sums the remaining work over all teams.
func (f *Feature) RemainingItems() int {
	total := 0
	for _, w := range f.Work {
		total += w.RemainingItems
	}
	return total
}

// WIPPolicy decides how many features a team works on concurrently.
type WIPPolicy interface {
	FeatureWIP(team *Team) int
}

// StaticWIP uses the team's configured FeatureWIP as is.
type StaticWIP struct{}

func (StaticWIP) FeatureWIP(team *Team) int {
	return team.FeatureWIP
}

// WIPPolicyFunc adapts a function to WIPPolicy.
type WIPPolicyFunc func(team *Team) int

func (f WIPPolicyFunc) FeatureWIP(team *Team) int {
	return f(team)
}
