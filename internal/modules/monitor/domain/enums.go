//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// State represents the monitoring task lifecycle:
// starting -> running -> paused -> running | stopped
// ENUM(starting,running,paused,stopped)
type State string
