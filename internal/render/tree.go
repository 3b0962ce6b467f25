package render

import "github.com/mesh-intelligence/inventory/pkg/types"

// Node is the serialisable form of an item and everything below it.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Label      string         `json:"label" yaml:"label"`
	FitsInto   string         `json:"fits_into,omitempty" yaml:"fits_into,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Contents   []*Node        `json:"contents,omitempty" yaml:"contents,omitempty"`
	Slots      []SlotNode     `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// SlotNode is the serialisable form of a slot.
type SlotNode struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Installed *Node  `json:"installed,omitempty" yaml:"installed,omitempty"`
}

// Tree builds the node tree rooted at root.
func Tree(root *types.Item) *Node {
	n := &Node{
		ID:       root.ID(),
		Name:     root.Name(),
		Label:    root.Label(),
		FitsInto: root.FitsInto().Name(),
	}
	if attrs := root.Attributes(); attrs.Len() > 0 {
		n.Attributes = attrs.Map()
	}
	for _, c := range root.Contents() {
		n.Contents = append(n.Contents, Tree(c))
	}
	for _, s := range root.Slots() {
		sn := SlotNode{Name: s.Name(), Type: s.Type().Name()}
		if occ := s.Installed(); occ != nil {
			sn.Installed = Tree(occ)
		}
		n.Slots = append(n.Slots, sn)
	}
	return n
}
