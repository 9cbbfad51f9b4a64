package parameter

// Navigation - Route Builder
const (
	// NavRouteStepLimit caps pathfinder queries for a single route
	NavRouteStepLimit = 10000
)

// Navigation - Waypoint Sequencer
const (
	// NavGenerateAttempts caps random candidate draws per Generate call
	NavGenerateAttempts = 500

	// NavSkipProbability is the default chance each generated waypoint is skipped
	NavSkipProbability = 0.0
)

// Navigation - Motion Controller
const (
	// AutopilotTurnSpeed is rotation rate in radians per second
	AutopilotTurnSpeed = 1.2

	// AutopilotAlignTolerance is the heading error below which the agent advances
	AutopilotAlignTolerance = 0.05

	// AutopilotArrivalRadiusSq is the squared distance at which a route cell counts as reached
	AutopilotArrivalRadiusSq = 0.04
)
