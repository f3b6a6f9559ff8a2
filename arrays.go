package rvcfg

// collapseOps computes the final array value from the full operation
// sequence of one property, ordered ancestor to descendant and, within a
// class, in declaration order. A sequence that starts with an append or
// remove behaves as if the accumulator started empty.
func collapseOps(ops []ArrayOp) []Value {
	var acc []Value
	for _, op := range ops {
		switch op.Kind {
		case OpAssign:
			acc = append(acc[:0:0], op.Values...)

		case OpAppend:
			// No deduplication: repeated values grow the list.
			acc = append(acc, op.Values...)

		case OpRemove:
			acc = removeAll(acc, op.Values)
		}
	}

	if acc == nil {
		acc = []Value{}
	}

	return acc
}

// removeAll deletes every occurrence of each operand value, preserving
// the relative order of the remaining elements.
func removeAll(acc []Value, operands []Value) []Value {
	if len(acc) == 0 || len(operands) == 0 {
		return acc
	}

	out := acc[:0]
	for _, v := range acc {
		if !containsValue(operands, v) {
			out = append(out, v)
		}
	}

	return out
}

// containsValue checks operand membership by value equality.
func containsValue(vals []Value, v Value) bool {
	for _, o := range vals {
		if o.equal(v) {
			return true
		}
	}

	return false
}
