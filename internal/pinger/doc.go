// Package pinger keeps a companion service awake by sending it an HTTP GET on
// a fixed cadence. Each cycle logs exactly one outcome line and the next cycle
// is armed only after the current one has finished, so slow requests shift the
// cadence instead of overlapping it.
package pinger
