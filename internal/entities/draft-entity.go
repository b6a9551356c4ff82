package entities

import "time"

// Draft is the per-work-item working document. It is exclusively owned by one
// work-item session and only ever mutated under the session's keyed mutex.
type Draft struct {
	WorkItemID string `json:"work_item_id"`

	// contractBaselineID -> active binding. At most one per baseline line.
	Installed map[string]InstalledBinding `json:"installed"`

	// equipmentID -> unit pulled out during this visit.
	MarkedForRemoval map[string]Equipment `json:"marked_for_removal"`

	// equipmentID -> flags. An entry here survives snapshot refreshes.
	RemovalStatus map[string]RemovalFlags `json:"removal_status"`

	// equipmentID -> snapshot record from the removable list. A unit must
	// appear here (or be installed) before it can be marked for removal.
	RemovableCandidates map[string]Equipment `json:"removable_candidates"`

	ReuseAll         bool      `json:"reuse_all"`
	LastSignalStatus string    `json:"last_signal_status"`
	LastUpdated      time.Time `json:"last_updated"`
}

func NewDraft(workItemID string) *Draft {
	return &Draft{
		WorkItemID:          workItemID,
		Installed:           make(map[string]InstalledBinding),
		MarkedForRemoval:    make(map[string]Equipment),
		RemovalStatus:       make(map[string]RemovalFlags),
		RemovableCandidates: make(map[string]Equipment),
	}
}

// EnsureMaps backfills nil maps after a JSON round trip through the cache.
func (d *Draft) EnsureMaps() {
	if d.Installed == nil {
		d.Installed = make(map[string]InstalledBinding)
	}
	if d.MarkedForRemoval == nil {
		d.MarkedForRemoval = make(map[string]Equipment)
	}
	if d.RemovalStatus == nil {
		d.RemovalStatus = make(map[string]RemovalFlags)
	}
	if d.RemovableCandidates == nil {
		d.RemovableCandidates = make(map[string]Equipment)
	}
}

// BindingFor returns the binding holding the given unit, if any.
func (d *Draft) BindingFor(equipmentID string) (string, *InstalledBinding) {
	for baselineID, binding := range d.Installed {
		if binding.ActualUnit.EquipmentID == equipmentID {
			b := binding
			return baselineID, &b
		}
	}
	return "", nil
}
