package engine

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// Calculator owns the session's mutable state (facility inputs, baseline
// practices, live intervention controls) and derives the full result set from
// it. Every setter triggers nothing by itself; callers run Recalculate (or
// the finer-grained RecalcBaseline / ApplyInterventions) and consume the
// returned snapshot. Recomputation is cheap, idempotent, and
// order-independent for fixed inputs.
type Calculator struct {
	ds       *dataset.Dataset
	resolver *GridResolver
	logger   zerolog.Logger

	mu        sync.Mutex
	inputs    Inputs
	practices Practices
	controls  map[string]Control

	patientDays float64
	gridFactor  float64
	baseline    Baseline
	current     Figures
	perInt      []InterventionResult
}

// NewCalculator builds a calculator over a loaded dataset. Inputs start at
// the facility defaults; practice defaults come from the catalog's baseline
// controls; all intervention controls start off/zero.
func NewCalculator(ds *dataset.Dataset, logger zerolog.Logger) *Calculator {
	c := &Calculator{
		ds:       ds,
		resolver: NewGridResolver(ds),
		logger:   logger,
		inputs:   DefaultInputs(),
	}
	c.resetPracticesLocked()
	c.controls = make(map[string]Control)
	return c
}

// resetPracticesLocked seeds practice states from the catalog defaults.
func (c *Calculator) resetPracticesLocked() {
	c.practices = make(Practices)
	for i := range c.ds.Catalog.Interventions {
		it := &c.ds.Catalog.Interventions[i]
		if it.BaselineControl == nil {
			continue
		}
		c.practices[it.ID] = PracticeState{
			Enabled: it.BaselineControl.DefaultEnabled,
			Value:   it.BaselineControl.DefaultValue,
		}
	}
}

// Reset restores default inputs, catalog-default practices, and clears all
// intervention controls.
func (c *Calculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = DefaultInputs()
	c.resetPracticesLocked()
	c.controls = make(map[string]Control)
}

// SetInputs replaces the facility inputs.
func (c *Calculator) SetInputs(in Inputs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = in
}

// Inputs returns a copy of the current facility inputs.
func (c *Calculator) Inputs() Inputs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputs
}

// SetPractice records the state of one baseline practice.
func (c *Calculator) SetPractice(id string, state PracticeState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.practices[id] = state
}

// SetControl records the live value of one intervention control.
func (c *Calculator) SetControl(id string, ctrl Control) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls[id] = ctrl
}

// DisabledInterventions reports which catalog entries should be presented as
// disabled: those whose paired baseline practice is explicitly marked not in
// use. Pure function of state; derived figures are untouched.
func (c *Calculator) DisabledInterventions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for i := range c.ds.Catalog.Interventions {
		id := c.ds.Catalog.Interventions[i].ID
		if p, ok := c.practices[id]; ok && !p.Enabled {
			out = append(out, id)
		}
	}
	return out
}

// RecalcBaseline runs the resolver and baseline model, reinitializing the
// current figures to the baseline, then returns a snapshot. Per-intervention
// results from an earlier ApplyInterventions are preserved in the snapshot
// but refer to the previous baseline until ApplyInterventions runs again;
// Recalculate composes both.
func (c *Calculator) RecalcBaseline() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recalcBaselineLocked()
	return c.snapshotLocked()
}

func (c *Calculator) recalcBaselineLocked() {
	c.gridFactor = c.resolver.Resolve(c.inputs.Zip, c.inputs.Country)
	c.patientDays, c.baseline = ComputeBaseline(c.inputs, c.practices, c.gridFactor, c.ds.Assumptions)
	c.current = Figures{
		AnnualT:     c.baseline.AnnualT,
		CategoriesT: copyCategories(c.baseline.CategoriesT),
	}

	c.logger.Debug().
		Str("component", "engine").
		Str("operation", "recalc_baseline").
		Float64("patient_days", c.patientDays).
		Float64("grid_factor", c.gridFactor).
		Float64("annual_t", c.baseline.AnnualT).
		Msg("baseline recomputed")
}

// ApplyInterventions evaluates every catalog entry against its live control,
// derives the current figures from the baseline minus aggregated deltas, and
// returns a snapshot. Entries whose paired baseline practice is explicitly
// disabled are excluded entirely: no result row, no contribution.
func (c *Calculator) ApplyInterventions() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyInterventionsLocked()
	return c.snapshotLocked()
}

func (c *Calculator) applyInterventionsLocked() {
	savings := 0.0
	catSave := map[Category]float64{}
	per := make([]InterventionResult, 0, len(c.ds.Catalog.Interventions))

	for i := range c.ds.Catalog.Interventions {
		it := &c.ds.Catalog.Interventions[i]

		if p, ok := c.practices[it.ID]; ok && !p.Enabled {
			continue
		}

		ctrl := c.controls[it.ID]
		var value float64
		var enabled bool
		switch it.Type {
		case "binary":
			enabled = ctrl.Enabled
			if enabled {
				value = 1
			}
		case "slider":
			value = ctrl.Value
			enabled = value != 0
		}

		delta := ComputeDelta(it, value, enabled, &c.baseline, c.patientDays, c.gridFactor, c.inputs, c.ds.Assumptions)
		per = append(per, InterventionResult{
			ID:      it.ID,
			Title:   it.Title,
			Enabled: enabled,
			Value:   value,
			DeltaT:  delta,
		})
		savings += delta

		if cat := Category(it.ImpactCategory); ValidCategory(cat) {
			catSave[cat] += delta
		}
	}

	c.perInt = per
	c.current.AnnualT = max0(c.baseline.AnnualT - savings)
	post := make(map[Category]float64, len(c.baseline.CategoriesT))
	for k, v := range c.baseline.CategoriesT {
		post[k] = max0(v - catSave[k])
	}
	c.current.CategoriesT = post

	c.logger.Debug().
		Str("component", "engine").
		Str("operation", "apply_interventions").
		Int("entries", len(per)).
		Float64("savings_t", savings).
		Float64("current_t", c.current.AnnualT).
		Msg("interventions applied")
}

// Recalculate runs the full pipeline: resolver, baseline model, intervention
// deltas, current-state derivation. This is the single entry point boundary
// layers call on any input change.
func (c *Calculator) Recalculate() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recalcBaselineLocked()
	c.applyInterventionsLocked()
	return c.snapshotLocked()
}

// Snapshot returns the most recently derived state without recomputing.
func (c *Calculator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Calculator) snapshotLocked() Snapshot {
	practices := make(Practices, len(c.practices))
	for k, v := range c.practices {
		practices[k] = v
	}
	per := make([]InterventionResult, len(c.perInt))
	copy(per, c.perInt)

	return Snapshot{
		Inputs:      c.inputs,
		Practices:   practices,
		PatientDays: c.patientDays,
		GridFactor:  c.gridFactor,
		Baseline: Baseline{
			IntensityPD: c.baseline.IntensityPD,
			Figures: Figures{
				AnnualT:     c.baseline.AnnualT,
				CategoriesT: copyCategories(c.baseline.CategoriesT),
			},
		},
		Current: Figures{
			AnnualT:     c.current.AnnualT,
			CategoriesT: copyCategories(c.current.CategoriesT),
		},
		PerIntervention: per,
	}
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
