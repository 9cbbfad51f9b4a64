package parameter

// Player motion
const (
	// PlayerSpeed is linear speed in cells per second
	PlayerSpeed = 4.0

	// PlayerTurnSpeed is manual rotation speed in radians per second
	PlayerTurnSpeed = 2.4

	// PlayerRadius is the collision margin around the agent center in cells
	PlayerRadius = 0.0
)
