// meta/meta.go
package meta

// BOARD_SIZE defines the default board dimension.
const BOARD_SIZE = 11

// RAVE_BIAS defines how fast RAVE influence decays as real visits accumulate.
const RAVE_BIAS = 50.0

// EXPLORATION defines the UCB1 exploration constant.
const EXPLORATION = 1.41

// NEUTRAL_PRIOR is the AMAF value assumed for a move without AMAF samples.
const NEUTRAL_PRIOR = 0.5

// CENTRE_MARGIN defines the half-width of the central swap region around the middle cell.
const CENTRE_MARGIN = 2
