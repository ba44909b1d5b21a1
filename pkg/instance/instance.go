package instance

import "github.com/Cesium55/food-mobile-sub000/pkg/env"

// DefaultID is reported when no platform identifier is present.
const DefaultID = "local"

// GetID returns the process instance identifier used to tag logs.
// INSTANCE_ID wins over the platform-provided DYNO and HOSTNAME.
func GetID() string {
	return env.First(DefaultID, "INSTANCE_ID", "DYNO", "HOSTNAME")
}
