package graph

import "strings"

// Role is the set of topological roles of a node. The zero value is NORMAL.
type Role uint8

// RoleNormal is the empty role set.
const RoleNormal Role = 0

const (
	// RoleRoot marks a node without surviving parent edges.
	RoleRoot Role = 1 << iota
	// RoleHead marks a node no other node lists as parent.
	RoleHead
	// RoleMerge marks a node that declares more than one parent.
	RoleMerge
)

// Has reports whether every role in r is set.
func (role Role) Has(r Role) bool {
	if r == RoleNormal {
		return role == RoleNormal
	}
	return role&r == r
}

// Names lists the role names in a stable order.
func (role Role) Names() []string {
	if role == RoleNormal {
		return []string{"NORMAL"}
	}
	var names []string
	if role&RoleRoot != 0 {
		names = append(names, "ROOT")
	}
	if role&RoleMerge != 0 {
		names = append(names, "MERGE")
	}
	if role&RoleHead != 0 {
		names = append(names, "HEAD")
	}
	return names
}

// String implements fmt.Stringer, e.g. "ROOT|HEAD".
func (role Role) String() string {
	return strings.Join(role.Names(), "|")
}

func classify(n *Node) Role {
	var role Role
	if len(n.Edges) == 0 {
		role |= RoleRoot
	}
	if len(n.Parents) > 1 {
		role |= RoleMerge
	}
	if len(n.Children) == 0 {
		role |= RoleHead
	}
	return role
}
