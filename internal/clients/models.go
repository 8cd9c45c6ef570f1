package clients

import (
	"strings"
	"time"
)

// Lane is one of the fixed workflow buckets a client is ranked in.
type Lane string

const (
	LaneBacklog    Lane = "backlog"
	LaneInProgress Lane = "in-progress"
	LaneComplete   Lane = "complete"
)

var allLanes = []Lane{
	LaneBacklog,
	LaneInProgress,
	LaneComplete,
}

var laneSet = func() map[Lane]struct{} {
	set := make(map[Lane]struct{}, len(allLanes))
	for _, lane := range allLanes {
		set[lane] = struct{}{}
	}
	return set
}()

// Lanes returns every lane in board order.
func Lanes() []Lane {
	out := make([]Lane, len(allLanes))
	copy(out, allLanes)
	return out
}

// ParseLane converts a user-supplied string into a Lane.
func ParseLane(value string) (Lane, bool) {
	normalized := Lane(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := laneSet[normalized]; !ok {
		return "", false
	}
	return normalized, true
}

// Valid reports whether the lane is one of the known values.
func (l Lane) Valid() bool {
	_, ok := laneSet[l]
	return ok
}

func (l Lane) String() string { return string(l) }

// Client is a tracked entity ranked within a lane. Descriptive fields are
// opaque to ranking.
type Client struct {
	ID           int64
	Name         string
	Description  string
	Org          string
	ContactName  string
	ContactEmail string
	Lane         Lane
	Priority     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewClient describes a client to insert at the bottom of its lane.
type NewClient struct {
	Name         string `toml:"name"`
	Description  string `toml:"description"`
	Org          string `toml:"org"`
	ContactName  string `toml:"contact_name"`
	ContactEmail string `toml:"contact_email"`
	Lane         Lane   `toml:"status"`
}

// LaneViolation reports a lane whose priorities are not exactly 1..N.
type LaneViolation struct {
	Lane       Lane
	Count      int
	Priorities []int
}

// DatabaseHealth captures diagnostic information about the client database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	IntegrityCheck   bool
	TotalClients     int
	LaneCounts       map[Lane]int
	Violations       []LaneViolation
	Error            string
}

// Healthy reports whether the database is readable, intact, and dense.
func (h DatabaseHealth) Healthy() bool {
	return h.DatabaseExists && h.DatabaseReadable && h.IntegrityCheck && len(h.Violations) == 0 && h.Error == ""
}
