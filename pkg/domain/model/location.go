package model

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// Location is a node in the location tree. Ownership of the tree belongs to
// the external location-management collaborator; the risk subsystem treats a
// set of Locations as a read-only snapshot and only follows ID/ParentID links.
type Location struct {
	ID       types.LocationID `json:"id" firestore:"id"`
	ParentID types.LocationID `json:"parentId,omitempty" firestore:"parent_id"`
	Name     string           `json:"name" firestore:"name"`
}

// Validate checks the location fields
func (x *Location) Validate() error {
	if x.ID == "" {
		return goerr.New("location ID is required")
	}
	if x.ParentID == x.ID {
		return goerr.New("location cannot be its own parent",
			goerr.V("locationID", x.ID))
	}
	return nil
}

// LocationTree indexes a location snapshot for traversal. Children are
// derived from ParentID links so callers only need to supply flat nodes.
type LocationTree struct {
	nodes    map[types.LocationID]*Location
	children map[types.LocationID][]types.LocationID
	roots    []types.LocationID
}

// NewLocationTree builds a tree (forest) from a flat location list.
// Duplicate IDs are rejected. A node whose parent is missing from the
// snapshot is treated as a root rather than an error; partial snapshots
// are a normal state while a collaborator syncs.
func NewLocationTree(locations []*Location) (*LocationTree, error) {
	tree := &LocationTree{
		nodes:    make(map[types.LocationID]*Location, len(locations)),
		children: make(map[types.LocationID][]types.LocationID),
	}

	for i, loc := range locations {
		if loc == nil {
			return nil, goerr.New("location is nil", goerr.V("index", i))
		}
		if err := loc.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid location", goerr.V("index", i))
		}
		if _, exists := tree.nodes[loc.ID]; exists {
			return nil, goerr.New("duplicate location ID", goerr.V("locationID", loc.ID))
		}
		locCopy := *loc
		tree.nodes[loc.ID] = &locCopy
	}

	for _, loc := range tree.nodes {
		if loc.ParentID == "" {
			tree.roots = append(tree.roots, loc.ID)
			continue
		}
		if _, ok := tree.nodes[loc.ParentID]; !ok {
			tree.roots = append(tree.roots, loc.ID)
			continue
		}
		tree.children[loc.ParentID] = append(tree.children[loc.ParentID], loc.ID)
	}

	// Deterministic traversal order
	sort.Slice(tree.roots, func(i, j int) bool { return tree.roots[i] < tree.roots[j] })
	for _, ids := range tree.children {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return tree, nil
}

// Get returns the location for an ID, or nil if absent
func (t *LocationTree) Get(id types.LocationID) *Location {
	loc, ok := t.nodes[id]
	if !ok {
		return nil
	}
	locCopy := *loc
	return &locCopy
}

// Roots returns the root location IDs in stable order
func (t *LocationTree) Roots() []types.LocationID {
	return append([]types.LocationID(nil), t.roots...)
}

// Children returns the direct child IDs of a location in stable order
func (t *LocationTree) Children(id types.LocationID) []types.LocationID {
	return append([]types.LocationID(nil), t.children[id]...)
}

// Len returns the number of locations in the tree
func (t *LocationTree) Len() int {
	return len(t.nodes)
}

// IDs returns all location IDs in the tree in stable order
func (t *LocationTree) IDs() []types.LocationID {
	ids := make([]types.LocationID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
