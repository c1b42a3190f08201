// Package controller runs the density-to-alert control loop: it polls an
// occupancy source, classifies the reading and broadcasts the level to the
// alert units, releasing every GPIO line on the way out.
package controller
