// Package flags formats choice-style flag usage and registers yes/no toggle
// flags for the itam-audit commands.
package flags
