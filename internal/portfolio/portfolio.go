package portfolio

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"mcs-forecast/internal/simulation"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPortfolio is returned for portfolio files that parse but are inconsistent.
	ErrInvalidPortfolio = errors.New("invalid portfolio")
	// ErrTeamNotFound is returned when no team matches a lookup.
	ErrTeamNotFound = errors.New("team not found")
	// ErrFeatureNotFound is returned when a requested feature ID is unknown.
	ErrFeatureNotFound = errors.New("feature not found")
)

// File is the on-disk layout of a portfolio.
type File struct {
	Teams    []TeamSpec    `yaml:"teams"`
	Features []FeatureSpec `yaml:"features"`
}

// TeamSpec describes one team. Throughput is either given as daily counts or derived
// from completion dates bucketed by day over Window.
type TeamSpec struct {
	ID                            string      `yaml:"id,omitempty"`
	Name                          string      `yaml:"name"`
	FeatureWIP                    int         `yaml:"feature_wip,omitempty"`
	AutomaticallyAdjustFeatureWIP bool        `yaml:"automatically_adjust_feature_wip,omitempty"`
	Throughput                    []int       `yaml:"throughput,omitempty"`
	CompletedOn                   []time.Time `yaml:"completed_on,omitempty"`
	Window                        *WindowSpec `yaml:"window,omitempty"`
}

// WindowSpec bounds the completion dates used to derive throughput. Both ends are inclusive.
type WindowSpec struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

type FeatureSpec struct {
	ID    string     `yaml:"id,omitempty"`
	Name  string     `yaml:"name"`
	Order int        `yaml:"order"`
	Work  []WorkSpec `yaml:"work"`
}

// WorkSpec is a team's share of a feature. Team refers to a team ID or exact name.
type WorkSpec struct {
	Team      string `yaml:"team"`
	Remaining int    `yaml:"remaining"`
	Total     int    `yaml:"total,omitempty"`
}

// Portfolio is the validated, simulation-ready view of a portfolio file.
type Portfolio struct {
	Teams    []*simulation.Team
	Features []*simulation.Feature
}

// Load reads and parses a portfolio file.
func Load(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio %q: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load portfolio %q: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML portfolio and resolves team references.
func Parse(data []byte) (*Portfolio, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return f.Build()
}

// Build validates the file and converts it into simulation inputs.
func (f *File) Build() (*Portfolio, error) {
	p := &Portfolio{}
	byRef := make(map[string]*simulation.Team)

	for i, spec := range f.Teams {
		team, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("%w: team #%d: %v", ErrInvalidPortfolio, i+1, err)
		}
		if _, dup := byRef[team.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate team id %q", ErrInvalidPortfolio, team.ID)
		}
		byRef[team.ID] = team
		p.Teams = append(p.Teams, team)
	}
	for _, team := range p.Teams {
		if _, taken := byRef[team.Name]; !taken {
			byRef[team.Name] = team
		}
	}

	for i, spec := range f.Features {
		feature, err := spec.build(byRef)
		if err != nil {
			return nil, fmt.Errorf("%w: feature #%d: %v", ErrInvalidPortfolio, i+1, err)
		}
		p.Features = append(p.Features, feature)
	}

	return p, nil
}

func (s TeamSpec) build() (*simulation.Team, error) {
	id, name := strings.TrimSpace(s.ID), strings.TrimSpace(s.Name)
	switch {
	case id == "" && name == "":
		return nil, errors.New("id or name is required")
	case id == "":
		id = name
	case name == "":
		name = id
	}

	wip := s.FeatureWIP
	if wip == 0 {
		wip = 1
	}

	throughput, err := s.throughput()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	return &simulation.Team{
		ID:                            id,
		Name:                          name,
		FeatureWIP:                    wip,
		AutomaticallyAdjustFeatureWIP: s.AutomaticallyAdjustFeatureWIP,
		Throughput:                    throughput,
	}, nil
}

func (s TeamSpec) throughput() (simulation.Throughput, error) {
	if len(s.Throughput) > 0 && len(s.CompletedOn) > 0 {
		return simulation.Throughput{}, errors.New("throughput and completed_on are mutually exclusive")
	}
	if len(s.CompletedOn) == 0 {
		tp := simulation.NewThroughput(s.Throughput)
		return tp, tp.Validate()
	}

	start, end := s.window()
	tp := simulation.NewThroughputFromCompletions(s.CompletedOn, start, end)
	return tp, tp.Validate()
}

// window defaults to the span between the earliest and latest completion.
func (s TeamSpec) window() (time.Time, time.Time) {
	start := slices.MinFunc(s.CompletedOn, func(a, b time.Time) int { return a.Compare(b) })
	end := slices.MaxFunc(s.CompletedOn, func(a, b time.Time) int { return a.Compare(b) })

	if s.Window != nil {
		if !s.Window.Start.IsZero() {
			start = s.Window.Start
		}
		if !s.Window.End.IsZero() {
			end = s.Window.End
		}
	}
	return start, end
}

func (s FeatureSpec) build(teams map[string]*simulation.Team) (*simulation.Feature, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		id = uuid.NewString()
	}
	name := s.Name
	if name == "" {
		name = id
	}

	feature := &simulation.Feature{ID: id, Name: name, Order: s.Order}
	for _, w := range s.Work {
		team, ok := teams[strings.TrimSpace(w.Team)]
		if !ok {
			return nil, fmt.Errorf("%s: unknown team %q", id, w.Team)
		}
		if w.Remaining < 0 {
			return nil, fmt.Errorf("%s: negative remaining items for team %q", id, w.Team)
		}

		total := w.Total
		if total < w.Remaining {
			total = w.Remaining
		}
		feature.Work = append(feature.Work, simulation.FeatureWork{
			Team:           team,
			RemainingItems: w.Remaining,
			TotalItems:     total,
		})
	}

	return feature, nil
}

// TeamByName finds a team by ID or name. Exact matches win; otherwise a unique
// case-insensitive substring match of the name is accepted.
func (p *Portfolio) TeamByName(name string) (*simulation.Team, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, fmt.Errorf("%w: empty team name", ErrTeamNotFound)
	}

	for _, t := range p.Teams {
		if strings.ToLower(t.ID) == query || strings.ToLower(t.Name) == query {
			return t, nil
		}
	}

	var matches []*simulation.Team
	for _, t := range p.Teams {
		if strings.Contains(strings.ToLower(t.Name), query) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = t.Name
		}
		return nil, fmt.Errorf("%w: %q is ambiguous, matches %s", ErrTeamNotFound, name, strings.Join(names, ", "))
	}
}

// FeaturesByID returns the requested features in portfolio order. Without IDs all
// features are returned.
func (p *Portfolio) FeaturesByID(ids ...string) ([]*simulation.Feature, error) {
	if len(ids) == 0 {
		return slices.Clone(p.Features), nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = false
	}

	var out []*simulation.Feature
	for _, f := range p.Features {
		if _, ok := wanted[f.ID]; ok {
			wanted[f.ID] = true
			out = append(out, f)
		}
	}

	for _, id := range ids {
		if !wanted[id] {
			return nil, fmt.Errorf("%w: %q", ErrFeatureNotFound, id)
		}
	}
	return out, nil
}
