// Package liveness implements the inbound HTTP routes of the keep-alive
// server: a plain text confirmation on / and a JSON health snapshot on
// /health. Neither route has side effects or an error branch.
package liveness
