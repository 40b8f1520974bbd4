// README: Common identifier and coordinate value objects used across modules.
package types

// ID is an opaque identifier assigned at creation time.
type ID string

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}
