package ranking

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"laneboard/internal/clients"
	"laneboard/internal/services"
)

// Request carries the raw, optional inputs of a reorder. A nil field means the
// caller did not ask for that part of the move.
type Request struct {
	Lane     *string
	Priority *string
}

// Plan is a validated Request. Inputs that failed validation are recorded in
// Rejected and leave their Has flag unset.
type Plan struct {
	Lane        clients.Lane
	HasLane     bool
	Priority    int
	HasPriority bool
	Rejected    []error
}

// Empty reports whether the plan requests no change at all.
func (p Plan) Empty() bool {
	return !p.HasLane && !p.HasPriority
}

// Validate converts a Request into a Plan.
func Validate(req Request) Plan {
	var plan Plan
	if req.Lane != nil {
		lane, ok := clients.ParseLane(*req.Lane)
		if ok {
			plan.Lane = lane
			plan.HasLane = true
		} else {
			plan.Rejected = append(plan.Rejected,
				services.Wrap(services.ErrInvalidLane, "status", fmt.Sprintf("%q is not one of %s", *req.Lane, laneList()), nil))
		}
	}
	if req.Priority != nil {
		priority, err := ParsePriority(*req.Priority)
		if err == nil {
			plan.Priority = priority
			plan.HasPriority = true
		} else {
			plan.Rejected = append(plan.Rejected, err)
		}
	}
	return plan
}

// ParsePriority parses a positive base-10 integer rank. Positive values too
// large for an int saturate to math.MaxInt so the engine clamps them to the
// bottom of the lane.
func ParsePriority(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	priority, err := strconv.Atoi(value)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(value, "-") {
		return math.MaxInt, nil
	}
	if err != nil {
		return 0, services.Wrap(services.ErrInvalidPriority, "priority", fmt.Sprintf("%q is not an integer", raw), nil)
	}
	if priority <= 0 {
		return 0, services.Wrap(services.ErrInvalidPriority, "priority", fmt.Sprintf("%d must be positive", priority), nil)
	}
	return priority, nil
}

func laneList() string {
	lanes := clients.Lanes()
	names := make([]string, len(lanes))
	for i, lane := range lanes {
		names[i] = string(lane)
	}
	return strings.Join(names, ", ")
}
