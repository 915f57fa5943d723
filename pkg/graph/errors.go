package graph

import "errors"

var (
	ErrEmptyNodeID   = errors.New("graph: empty node id")
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrBadWeight     = errors.New("graph: edge weight must be finite and non-negative")
	ErrBuilt         = errors.New("graph: builder already built")
)
