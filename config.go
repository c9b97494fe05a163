package arixtree

import "errors"

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Layout constants shared by the generator and the animator.
const (
	ScatterRadius = 35.0 // radius of the sphere particles scatter onto
	lightWindings = 15   // full turns of the light string around the cone
	boughLayers   = 8    // visible tiers of the pine silhouette
	boughBulge    = 0.8  // how far a tier bulges past the base cone
	tipOffset     = 0.2  // lift of lights/ornaments outside the foliage
	frostBand     = 1.0  // distance from the bough edge that gets frosted
	frostMaxMix   = 0.8
)

// Animation constants.
const (
	MorphSpeed     = 1.0  // rate progress chases its target, per second
	LeafSpinRate   = 0.1  // rad/s spin of assembled leaves and ornaments
	StarSpinRate   = 0.2  // rad/s spin of the star on its own axis
	GroupSpinRate  = 0.05 // rad/s yaw of assembled groups, scaled by eased progress
	StarScale      = 1.2
	IntroDelay     = 1.5  // seconds before the tree assembles itself
	sceneOffsetY   = -5.0 // the whole tree sits this far below the origin
	starApexMargin = 1.0
)

var (
	colorFrost   = MustHex("#E0F7FA")
	colorGold    = MustHex("#FFD700")
	colorRuby    = MustHex("#D70040")
	colorCrystal = MustHex("#F0FFFF")
	colorWarm    = MustHex("#FFD27F")
)

// The three instanced groups. These are fixed at compile time; only
// presentation options can be changed at runtime.
var (
	LeavesConfig = ParticleConfig{
		Count:          4000,
		Radius:         7,
		Height:         16,
		ColorPrimary:   MustHex("#0A2F10"),
		ColorSecondary: MustHex("#FFFFFF"),
	}
	OrnamentsConfig = ParticleConfig{
		Count:          300,
		Radius:         7.2,
		Height:         16,
		ColorPrimary:   colorGold,
		ColorSecondary: colorRuby,
	}
	LightsConfig = ParticleConfig{
		Count:          200,
		Radius:         7.1,
		Height:         16,
		ColorPrimary:   colorWarm,
		ColorSecondary: colorWarm,
	}
)
