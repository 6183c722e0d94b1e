package simulation

// SimulationResult is the per (team, feature) state of a trial run. It is owned by
// exactly one team worker and reset at the start of every trial.
type SimulationResult struct {
	TeamID                string
	FeatureID             string
	Order                 int
	InitialRemainingItems int
	RemainingItems        int

	// Outcomes maps a completion day to the number of trials that finished on it.
	Outcomes map[int]int
}

func newSimulationResult(teamID, featureID string, order, remaining int) *SimulationResult {
	return &SimulationResult{
		TeamID:                teamID,
		FeatureID:             featureID,
		Order:                 order,
		InitialRemainingItems: remaining,
		RemainingItems:        remaining,
		Outcomes:              make(map[int]int),
	}
}

func (s *SimulationResult) HasWorkRemaining() bool {
	return s.RemainingItems > 0
}

// Reset restores the remaining items for the next trial. Outcomes are kept.
func (s *SimulationResult) Reset() {
	s.RemainingItems = s.InitialRemainingItems
}

func (s *SimulationResult) record(outcome int) {
	s.Outcomes[outcome]++
}

func totalRemaining(states []*SimulationResult) int {
	total := 0
	for _, s := range states {
		total += s.RemainingItems
	}
	return total
}
