package main

import "github.com/lanan07075/aldev-p6dof/kinematics"

// fixedVehicle is a constant-accessor kinematics.VehicleAccessors stub: a
// placeholder mass/drag/thrust envelope standing in for the parent-vehicle
// accessor object the original embeds the controller in. No example repo in
// the pack models vehicle mass/drag/thrust properties, so these are fixed,
// representative fighter-class values rather than anything loaded from
// configuration.
type fixedVehicle struct {
	massKg          float64
	minThrustN      float64
	maxThrustN      float64
	currentThrottle float64
}

func newFixedVehicle() *fixedVehicle {
	return &fixedVehicle{
		massKg:     9500,
		minThrustN: 5000,
		maxThrustN: 130000,
	}
}

func (v *fixedVehicle) MassKg() float64                          { return v.massKg }
func (v *fixedVehicle) DragN(state kinematics.State) float64      { return 0 }
func (v *fixedVehicle) MinThrustN(state kinematics.State) float64 { return v.minThrustN }
func (v *fixedVehicle) MaxThrustN(state kinematics.State) float64 { return v.maxThrustN }
func (v *fixedVehicle) PitchRateDps() float64                     { return 0 }
func (v *fixedVehicle) RollRateDps() float64                      { return 0 }
func (v *fixedVehicle) CurrentThrottle() float64                  { return v.currentThrottle }
