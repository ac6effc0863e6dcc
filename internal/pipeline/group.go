package pipeline

import "github.com/cleared-dev/autoshop/internal/model"

// Item is a record with its precomputed signature.
type Item struct {
	Record    model.ImportRecord
	Signature string
}

// Group is the records of one customer, in file order.
type Group struct {
	Customer model.CustomerKey
	Items    []Item
}

// Groups collects items by customer, keeping the order in which each
// customer first appears.
type Groups struct {
	order []*Group
	index map[model.CustomerKey]*Group
}

// NewGroups returns an empty collection.
func NewGroups() *Groups {
	return &Groups{index: make(map[model.CustomerKey]*Group)}
}

// Add appends it to its customer's group.
func (g *Groups) Add(it Item) {
	key := it.Record.Customer()
	grp, ok := g.index[key]
	if !ok {
		grp = &Group{Customer: key}
		g.index[key] = grp
		g.order = append(g.order, grp)
	}
	grp.Items = append(grp.Items, it)
}

// List returns the groups in first-seen order.
func (g *Groups) List() []*Group { return g.order }

// Len returns the number of customers seen.
func (g *Groups) Len() int { return len(g.order) }
