package circuitcraft

import (
	"strconv"
	"strings"
)

// SlotIndex maps an output slot label to the branch index it carries.
//
// "true" and "0" are the true branch (0); "false" and "1" the false
// branch (1). Editor labels "output_N" are 1-based and map to N-1, so
// "output_1" is the true branch and "output_2" the false one. Any other
// numeric label maps to itself. An empty label is the true branch.
// Other labels that cannot be read return -1.
func SlotIndex(slot string) int {
	switch strings.ToLower(strings.TrimSpace(slot)) {
	case "", "true":
		return 0
	case "false":
		return 1
	}
	if rest, ok := strings.CutPrefix(slot, "output_"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 {
			return n - 1
		}
		return -1
	}
	if n, err := strconv.Atoi(strings.TrimSpace(slot)); err == nil && n >= 0 {
		return n
	}
	return -1
}

// TakesPath reports whether a connection leaving a conditional node through
// slot is followed when the condition resolved to taken. Slot 0 follows
// the true branch, slot 1 the false branch, every other slot is always
// followed.
func TakesPath(slot string, taken bool) bool {
	switch SlotIndex(slot) {
	case 0:
		return taken
	case 1:
		return !taken
	default:
		return true
	}
}

// branchOf extracts the branch decision from a node result. ok is false
// when the result does not come from a conditional node.
func branchOf(result any) (taken, ok bool) {
	switch r := result.(type) {
	case ConditionResult:
		return r.Result, true
	case *ConditionResult:
		if r == nil {
			return false, false
		}
		return r.Result, true
	case map[string]any:
		path, has := r["executionPath"]
		if !has || path == nil {
			return false, false
		}
		if b, isBool := r["result"].(bool); isBool {
			return b, true
		}
		s, _ := path.(string)
		return s == "true", true
	}
	return false, false
}

// skipSet is the per-run set of nodes excluded from execution. It keeps
// insertion order for reporting.
type skipSet struct {
	members map[string]bool
	order   []string
}

func newSkipSet() *skipSet {
	return &skipSet{members: make(map[string]bool)}
}

func (s *skipSet) has(id string) bool {
	return s.members[id]
}

// add inserts id and reports whether it was newly added.
func (s *skipSet) add(id string) bool {
	if s.members[id] {
		return false
	}
	s.members[id] = true
	s.order = append(s.order, id)
	return true
}

func (s *skipSet) list() []string {
	return append([]string(nil), s.order...)
}

// shouldSkip reports whether a node must be skipped: an upstream source
// was skipped, or a conditional upstream took the branch this node's
// connection does not belong to.
func shouldSkip(incoming []Connection, results map[string]any, skipped *skipSet) (bool, string) {
	for _, c := range incoming {
		if skipped.has(c.SourceNode) {
			return true, "upstream node " + c.SourceNode + " was skipped"
		}
		result, ok := results[c.SourceNode]
		if !ok {
			continue
		}
		if taken, isBranch := branchOf(result); isBranch && !TakesPath(c.SourceOutput, taken) {
			return true, "branch " + c.SourceOutput + " of " + c.SourceNode + " not taken"
		}
	}
	return false, ""
}

// markNotTaken adds every node downstream of a conditional node's not-taken
// outgoing connections to the skip set, depth-first.
func markNotTaken(cw *CompiledWorkflow, nodeID string, taken bool, skipped *skipSet) {
	for _, c := range cw.outgoing[nodeID] {
		if TakesPath(c.SourceOutput, taken) {
			continue
		}
		markDownstream(cw, c.TargetNode, skipped)
	}
}

func markDownstream(cw *CompiledWorkflow, nodeID string, skipped *skipSet) {
	if !skipped.add(nodeID) {
		return
	}
	for _, c := range cw.outgoing[nodeID] {
		markDownstream(cw, c.TargetNode, skipped)
	}
}
