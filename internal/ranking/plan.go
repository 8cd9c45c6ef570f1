package ranking

import "laneboard/internal/clients"

// Position is a client's lane and rank.
type Position struct {
	Lane     clients.Lane
	Priority int
}

// Shift adds Delta to every client in Lane ranked within [From, To].
type Shift struct {
	Lane  clients.Lane
	From  int
	To    int
	Delta int
}

// Move is the full effect of one reorder: the shifts applied to other
// clients, in order, and the moving client's final position.
type Move struct {
	From   Position
	To     Position
	Shifts []Shift
}

// Changed reports whether the move alters the client's position.
func (m Move) Changed() bool {
	return m.From != m.To
}

// PlanShifts computes the shifts and final placement for moving the client at
// cur. oldCount is the size of cur.Lane; targetCount is the size of the
// destination lane before the move (equal to oldCount when the lane is kept).
func PlanShifts(cur Position, plan Plan, oldCount, targetCount int) Move {
	move := Move{From: cur, To: cur}

	laneChange := plan.HasLane && plan.Lane != cur.Lane
	maxAllowed := targetCount
	if laneChange {
		maxAllowed = targetCount + 1
	}

	if laneChange {
		if cur.Priority+1 <= oldCount {
			move.Shifts = append(move.Shifts, Shift{Lane: cur.Lane, From: cur.Priority + 1, To: oldCount, Delta: -1})
		}
		move.To = Position{Lane: plan.Lane, Priority: maxAllowed}
	}

	if !plan.HasPriority {
		return move
	}

	target := min(plan.Priority, maxAllowed)
	current := move.To.Priority
	switch {
	case target < current:
		move.Shifts = append(move.Shifts, Shift{Lane: move.To.Lane, From: target, To: current - 1, Delta: 1})
	case target > current:
		move.Shifts = append(move.Shifts, Shift{Lane: move.To.Lane, From: current + 1, To: target, Delta: -1})
	}
	move.To.Priority = target
	return move
}
