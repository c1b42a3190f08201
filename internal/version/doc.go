// Package version carries the build metadata of crowd-alarm.
//
// Version, Commit and BuildTime are set with -ldflags "-X" at build time;
// local builds report the development defaults.
package version
