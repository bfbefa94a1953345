package pilot

import (
	"github.com/lanan07075/aldev-p6dof/kinematics"
	"github.com/lanan07075/aldev-p6dof/rand"
)

// Manager owns the population of pilot sources and exposes exactly one as
// active (spec.md §4.4). Priority/arbitration (highest first): Testing,
// Destroyed, Controls-disabled, Autopilot-enabled, Manual.
type Manager struct {
	manualSimple     *Object
	manualAugmented  *Object
	synthetic        *Object
	hardwareBTT      *Object
	hardwareSTT      *Object
	guidanceBTT      *Object
	guidanceSTT      *Object

	active *Object

	destroyed bool

	rng *rand.Rand
}

// NewManager builds an empty Manager; pilots are registered with the
// RegisterX methods as they are constructed.
func NewManager(rng *rand.Rand) *Manager {
	return &Manager{rng: rng}
}

func (m *Manager) RegisterManualSimple(o *Object)    { m.manualSimple = o }
func (m *Manager) RegisterManualAugmented(o *Object) { m.manualAugmented = o }
func (m *Manager) RegisterSynthetic(o *Object)       { m.synthetic = o }
func (m *Manager) RegisterHardwareAutopilotBTT(o *Object) { m.hardwareBTT = o }
func (m *Manager) RegisterHardwareAutopilotSTT(o *Object) { m.hardwareSTT = o }
func (m *Manager) RegisterGuidanceAutopilotBTT(o *Object)  { m.guidanceBTT = o }
func (m *Manager) RegisterGuidanceAutopilotSTT(o *Object)  { m.guidanceSTT = o }

// all returns every registered pilot object, non-nil only.
func (m *Manager) all() []*Object {
	var out []*Object
	for _, o := range []*Object{m.manualSimple, m.manualAugmented, m.synthetic, m.hardwareBTT, m.hardwareSTT, m.guidanceBTT, m.guidanceSTT} {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// ActivePilot returns the currently active pilot, or nil if none has been
// made active yet.
func (m *Manager) ActivePilot() *Object { return m.active }

// GetActiveManualPilot returns the active pilot if it is one of the two
// manual kinds, else nil (grounded on GetActiveManualPilot's check against
// both manual member pointers).
func (m *Manager) GetActiveManualPilot() *Object {
	if m.active == m.manualSimple || m.active == m.manualAugmented {
		return m.active
	}
	return nil
}

func (m *Manager) GetActiveSyntheticPilot() *Object {
	if m.active == m.synthetic {
		return m.active
	}
	return nil
}

func (m *Manager) GetActiveHardwareAutopilot() *Object {
	if m.active == m.hardwareBTT || m.active == m.hardwareSTT {
		return m.active
	}
	return nil
}

func (m *Manager) GetActiveGuidanceAutopilot() *Object {
	if m.active == m.guidanceBTT || m.active == m.guidanceSTT {
		return m.active
	}
	return nil
}

// makeActive is the shared precondition for every MakeXActive call (spec.md
// §4.4: "succeeds only if a pilot of that family exists and the vehicle is
// not destroyed").
func (m *Manager) makeActive(o *Object) bool {
	if o == nil || m.destroyed {
		return false
	}
	m.active = o
	return true
}

func (m *Manager) MakeManualSimpleActive() bool     { return m.makeActive(m.manualSimple) }
func (m *Manager) MakeManualAugmentedActive() bool  { return m.makeActive(m.manualAugmented) }
func (m *Manager) MakeSyntheticActive() bool        { return m.makeActive(m.synthetic) }
func (m *Manager) MakeHardwareAutopilotBTTActive() bool { return m.makeActive(m.hardwareBTT) }
func (m *Manager) MakeHardwareAutopilotSTTActive() bool { return m.makeActive(m.hardwareSTT) }
func (m *Manager) MakeGuidanceAutopilotBTTActive() bool { return m.makeActive(m.guidanceBTT) }
func (m *Manager) MakeGuidanceAutopilotSTTActive() bool { return m.makeActive(m.guidanceSTT) }

// InputAngleDeltasToPilotObjects broadcasts one frame's yaw/pitch/roll angle
// deltas to every owned pilot object, active or not (spec.md §4.4,
// grounded on P6DofPilotManager::InputAngleDeltasToPilotObjects).
func (m *Manager) InputAngleDeltasToPilotObjects(yawRad, pitchRad, rollRad float64) {
	for _, o := range m.all() {
		o.InputAngleDeltas(yawRad, pitchRad, rollRad)
	}
}

// SetDestroyed pins the active pilot, disables its autopilot, and applies
// the precise randomized loss-of-control bias (spec.md §4.4 "Destroyed
// behavior (precise)"). No further control changes are accepted afterward.
// The same bias is fanned out to every owned pilot object, not just the
// active one, matching P6DofPilotManager::SetDestroyed.
func (m *Manager) SetDestroyed() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	pitchMod := m.rng.Signed()
	rollMod := m.rng.Signed()
	for _, o := range m.all() {
		o.setDestroyed(pitchMod, rollMod)
	}
}

func (m *Manager) IsDestroyed() bool { return m.destroyed }

// Update drives the active pilot's frame and returns its actuator command,
// applying the priority/arbitration chain: Testing overrides everything;
// once destroyed the active pilot's pinned destroyed command is returned
// regardless of Update's state argument; otherwise controls-disabled
// yields neutral output; otherwise the active pilot's own Update dispatches
// autopilot vs. manual handling.
func (m *Manager) Update(dt float64, state kinematics.State) kinematics.ActuatorCommand {
	if m.active == nil {
		return kinematics.Neutral()
	}
	if t := m.testingPilot(); t != nil {
		return t.Update(dt, state)
	}
	if m.destroyed {
		return m.active.Update(dt, state)
	}
	if !m.active.ControlsEnabled() {
		return kinematics.Neutral()
	}
	return m.active.Update(dt, state)
}

// testingPilot returns the first owned pilot in testing mode, if any —
// testing mode overrides the active-pilot selection entirely (spec.md §4.4
// priority 1).
func (m *Manager) testingPilot() *Object {
	for _, o := range m.all() {
		if o.IsTesting() {
			return o
		}
	}
	return nil
}
