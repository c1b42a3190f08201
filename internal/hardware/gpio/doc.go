// Package gpio drives hardware output lines.
//
// A Chip hands out exclusive Line claims. CdevChip talks to the Linux GPIO
// character device; MemoryChip keeps line state in memory and records every
// change, which makes it usable both as a simulator and as a test double.
//
// A claimed line is configured as an output and driven inactive. Releasing it
// switches it back to an input so nothing is left driven after the process exits.
package gpio
