package frame

import "github.com/leapstack-labs/sqlframe/pkg/core"

// UnionAll appends other with UNION ALL.
func (f *Frame) UnionAll(other *Frame) *Frame { return f.setOp(core.UnionAll, other) }

// UnionDistinct appends other with UNION DISTINCT.
func (f *Frame) UnionDistinct(other *Frame) *Frame { return f.setOp(core.UnionDistinct, other) }

// IntersectDistinct appends other with INTERSECT DISTINCT.
func (f *Frame) IntersectDistinct(other *Frame) *Frame {
	return f.setOp(core.IntersectDistinct, other)
}

// ExceptDistinct appends other with EXCEPT DISTINCT.
func (f *Frame) ExceptDistinct(other *Frame) *Frame { return f.setOp(core.ExceptDistinct, other) }

func (f *Frame) setOp(op core.SetOpType, other *Frame) *Frame {
	if f.err != nil {
		return f
	}
	if other == nil {
		return f.fail(core.Errorf(core.KindType, "can't combine with a nil frame"))
	}
	if other.err != nil {
		return f.fail(other.err)
	}
	return f.next(core.NewSetOp(op, f.node, other.node))
}
