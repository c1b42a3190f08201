// Package indicator renders severity levels on physical alert units.
//
// A Unit owns an ordered set of GPIO lines for its whole lifetime. Light turns
// lamps on and off; Buzzer sounds a rising sweep on warning and stays silent
// otherwise. Coordinator broadcasts one level to every unit, strictly in
// registration order. All rendering is synchronous: a warning render returns
// only when its pattern has finished.
package indicator
