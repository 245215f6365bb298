// components.go — Component tree capability.
package assemble

import "iter"

// ComponentNode is one component instance seen in the page's UI tree.
type ComponentNode struct {
	Name     string   `json:"name"`
	PropKeys []string `json:"propKeys,omitempty"`
	Depth    int      `json:"depth"`
}

// ComponentTreeProvider yields a finite sequence of component nodes in tree
// order. Callers must not assume the sequence can be iterated twice.
type ComponentTreeProvider interface {
	Components() iter.Seq[ComponentNode]
}

// NullComponents is the provider used when the framework is unknown.
type NullComponents struct{}

func (NullComponents) Components() iter.Seq[ComponentNode] {
	return func(func(ComponentNode) bool) {}
}

// ComponentList is a provider over nodes already collected by the page.
type ComponentList []ComponentNode

func (l ComponentList) Components() iter.Seq[ComponentNode] {
	return func(yield func(ComponentNode) bool) {
		for _, n := range l {
			if !yield(n) {
				return
			}
		}
	}
}
