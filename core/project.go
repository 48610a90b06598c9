package core

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
)

// unknownPath is shown in titles for projects that were never saved or opened from disk.
const unknownPath = "<unknown>"

// Project owns the properties, specimens and derived datasets of one analysis.
// It is single-writer: every mutation validates, propagates and rescores
// synchronously before returning. Values returned by accessors must be treated
// as read-only; all changes go through Project methods.
type Project struct {
	name  string
	path  string
	dirty bool

	properties []schema.Property
	specimens  []*schema.Specimen
	datasets   []*schema.Dataset

	contributions map[uuid.UUID][]algo.Contribution
	observers     []observer
	nextObserver  int
}

// NewProject returns an empty, clean project with no path.
func NewProject(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Project{name: name, contributions: make(map[uuid.UUID][]algo.Contribution)}, nil
}

// NewProjectAt returns an empty project bound to path. It starts dirty since
// nothing has been written yet.
func NewProjectAt(name, path string) (*Project, error) {
	p, err := NewProject(name)
	if err != nil {
		return nil, err
	}
	p.path = path
	p.dirty = true
	return p, nil
}

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Path returns the file the project was loaded from or saved to.
func (p *Project) Path() string { return p.path }

// IsDirty reports whether the project changed since it was last saved or loaded.
func (p *Project) IsDirty() bool { return p.dirty }

// Title returns "Name (Path)" with a "*" after the name when dirty.
func (p *Project) Title() string {
	var b strings.Builder
	b.WriteString(p.name)
	if p.dirty {
		b.WriteString("*")
	}
	b.WriteString(" (")
	if p.path == "" {
		b.WriteString(unknownPath)
	} else {
		b.WriteString(p.path)
	}
	b.WriteString(")")
	return b.String()
}

// SetName renames the project.
func (p *Project) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if name == p.name {
		return nil
	}
	old := p.name
	p.name = name
	p.emit(Change{Field: NameChanged, Old: old, New: name})
	return p.markChanged()
}

// Properties returns a copy of the property list in insertion order.
func (p *Project) Properties() []schema.Property {
	return slices.Clone(p.properties)
}

// Property returns the property with the given name.
func (p *Project) Property(name string) (schema.Property, bool) {
	i := p.propertyIndex(name)
	if i < 0 {
		return schema.Property{}, false
	}
	return p.properties[i], true
}

// Specimens returns the specimens in insertion order.
func (p *Project) Specimens() []*schema.Specimen {
	return slices.Clone(p.specimens)
}

// Specimen returns the specimen with the given ID.
func (p *Project) Specimen(id uuid.UUID) (*schema.Specimen, bool) {
	i := p.specimenIndex(id)
	if i < 0 {
		return nil, false
	}
	return p.specimens[i], true
}

// FindSpecimens returns every specimen with the given name in insertion order.
func (p *Project) FindSpecimens(name string) []*schema.Specimen {
	var out []*schema.Specimen
	for _, s := range p.specimens {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Datasets returns copies of the score records in rank order.
func (p *Project) Datasets() []*schema.Dataset {
	out := make([]*schema.Dataset, len(p.datasets))
	for i, d := range p.datasets {
		clone := *d
		out[i] = &clone
	}
	return out
}

// Contributions returns the per-property breakdown of a specimen's last score.
func (p *Project) Contributions(id uuid.UUID) []algo.Contribution {
	return slices.Clone(p.contributions[id])
}

// WeightSum returns the sum of weights over scoring-eligible properties.
func (p *Project) WeightSum() int {
	sum := 0
	for _, prop := range p.properties {
		if prop.Type.Scores() {
			sum += prop.Weight
		}
	}
	return sum
}

// Snapshot captures the current ranking.
func (p *Project) Snapshot() schema.RankingSnapshot {
	snap := schema.RankingSnapshot{Project: p.name, TakenAt: time.Now()}
	for _, d := range p.datasets {
		snap.Entries = append(snap.Entries, schema.SnapshotEntry{
			Name:   d.Name(),
			Rank:   d.Rank,
			Value:  d.Value,
			Scored: d.Scored,
		})
	}
	return snap
}

// UpdateAnalysis rescores every specimen against one consistent snapshot of the
// properties and specimens, reconciles datasets 1:1 with specimens and reranks.
// On error the previous datasets are left untouched.
func (p *Project) UpdateAnalysis() error {
	scorer, err := algo.NewScorer(p.specimens, p.properties)
	if err != nil {
		return err
	}

	type result struct {
		value  float64
		scored bool
	}
	results := make(map[uuid.UUID]result, len(p.specimens))
	contributions := make(map[uuid.UUID][]algo.Contribution, len(p.specimens))
	for _, s := range p.specimens {
		value, contribs, err := scorer.Score(s)
		switch {
		case errors.Is(err, algo.ErrNoWeight):
			results[s.ID] = result{}
		case err != nil:
			return err
		default:
			results[s.ID] = result{value: value, scored: true}
		}
		contributions[s.ID] = contribs
	}

	live := make(map[uuid.UUID]*schema.Specimen, len(p.specimens))
	for _, s := range p.specimens {
		live[s.ID] = s
	}

	type before struct {
		value  float64
		scored bool
		rank   int
	}
	previous := make(map[uuid.UUID]before, len(p.datasets))
	next := make([]*schema.Dataset, 0, len(p.specimens))
	var removed []*schema.Dataset
	for _, d := range p.datasets {
		s, ok := live[d.Specimen.ID]
		if !ok {
			removed = append(removed, d)
			continue
		}
		previous[s.ID] = before{value: d.Value, scored: d.Scored, rank: d.Rank}
		d.Specimen = s
		next = append(next, d)
	}
	var added []*schema.Dataset
	for _, s := range p.specimens {
		if _, ok := previous[s.ID]; ok {
			continue
		}
		d := &schema.Dataset{Specimen: s}
		added = append(added, d)
		next = append(next, d)
	}

	for _, d := range next {
		r := results[d.Specimen.ID]
		d.Value, d.Scored = r.value, r.scored
	}
	algo.RankDatasets(next)
	p.datasets = next
	p.contributions = contributions

	for _, d := range removed {
		p.emit(Change{Field: DatasetRemoved, SpecimenID: d.Specimen.ID, Old: d.Name()})
	}
	for _, d := range added {
		p.emit(Change{Field: DatasetAdded, SpecimenID: d.Specimen.ID, New: d.Name()})
	}
	for _, d := range next {
		old, existed := previous[d.Specimen.ID]
		if !existed {
			continue
		}
		if old.value != d.Value || old.scored != d.Scored {
			p.emit(Change{Field: DatasetValueChanged, SpecimenID: d.Specimen.ID, Old: old.value, New: d.Value})
		}
		if old.rank != d.Rank {
			p.emit(Change{Field: DatasetRankChanged, SpecimenID: d.Specimen.ID, Old: old.rank, New: d.Rank})
		}
	}
	return nil
}

// markChanged flags the project dirty and rescores.
func (p *Project) markChanged() error {
	p.setDirty(true)
	return p.UpdateAnalysis()
}

func (p *Project) setDirty(dirty bool) {
	if p.dirty == dirty {
		return
	}
	oldTitle := p.Title()
	p.dirty = dirty
	p.emit(Change{Field: DirtyChanged, Old: !dirty, New: dirty})
	p.emit(Change{Field: TitleChanged, Old: oldTitle, New: p.Title()})
}

func (p *Project) setPath(path string) {
	if p.path == path {
		return
	}
	oldTitle, oldPath := p.Title(), p.path
	p.path = path
	p.emit(Change{Field: PathChanged, Old: oldPath, New: path})
	p.emit(Change{Field: TitleChanged, Old: oldTitle, New: p.Title()})
}

func (p *Project) propertyIndex(name string) int {
	return slices.IndexFunc(p.properties, func(prop schema.Property) bool { return prop.Name == name })
}

func (p *Project) specimenIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.specimens, func(s *schema.Specimen) bool { return s.ID == id })
}
