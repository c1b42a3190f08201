// Package alarm contains core domain types for the crowd alarm business logic.
//
// It defines Level (the severity shown on the indicators) and Reading (an
// occupancy count over a measured area), together with the density thresholds
// that map one onto the other.
package alarm
