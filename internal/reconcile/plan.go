package reconcile

import (
	"sort"

	"github.com/Tiliavir/floatsync/internal/confirm"
	"github.com/Tiliavir/floatsync/internal/float"
)

// Kind is what reconciliation does for a single date.
type Kind int

const (
	Noop Kind = iota
	Create
	Delete
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Delete:
		return "delete"
	default:
		return "noop"
	}
}

// Action is the planned change for one date. ID is set for deletes.
type Action struct {
	Kind Kind
	Date string
	ID   string
}

// Index maps each date with logged hours to its record id. Records without
// positive hours are ignored; for several records on one date the last wins.
func Index(records []float.LoggedTime) map[string]string {
	idx := make(map[string]string, len(records))
	for _, r := range records {
		if r.Hours > 0 {
			idx[r.Date] = r.ID
		}
	}
	return idx
}

// Plan decides, independently per confirmed date, whether to create, delete,
// or leave the remote entry alone. Actions are ordered by date.
func Plan(confirmations confirm.Confirmations, index map[string]string) []Action {
	actions := make([]Action, 0, len(confirmations))
	for date, worked := range confirmations {
		id, logged := index[date]
		switch {
		case !worked && logged:
			actions = append(actions, Action{Kind: Delete, Date: date, ID: id})
		case worked && !logged:
			actions = append(actions, Action{Kind: Create, Date: date})
		default:
			actions = append(actions, Action{Kind: Noop, Date: date, ID: id})
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Date < actions[j].Date })
	return actions
}
