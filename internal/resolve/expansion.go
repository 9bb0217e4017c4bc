package resolve

import "fmt"

// anchorInfo tracks one registered anchor: how many nodes it introduces on
// its own (BaseSize) and which other anchors it references (Refs), so the
// tracker can compute the transitive expansion size of alias chains.
type anchorInfo struct {
	baseSize int
	refs     []string
	// cached expansion size, once computed and confirmed acyclic.
	size    int
	sizeSet bool
}

// ExpansionTracker accounts for the total node count introduced by alias
// expansion, enforcing spec §4.5's anchor expansion budget. It mirrors the
// original's ResolverState / gtext_yaml_resolver_* API (yaml_resolver.h):
// RegisterAnchorWithRefs, ComputeExpansion, ApplyAlias.
type ExpansionTracker struct {
	anchors map[string]*anchorInfo
	spent   int
	// visiting is used for cycle detection during ComputeExpansion.
	visiting map[string]bool
}

// NewExpansionTracker returns a tracker with no anchors registered.
func NewExpansionTracker() *ExpansionTracker {
	return &ExpansionTracker{
		anchors:  map[string]*anchorInfo{},
		visiting: map[string]bool{},
	}
}

// RegisterAnchor records an anchor with a flat node count and no
// references to other anchors.
func (t *ExpansionTracker) RegisterAnchor(name string, size int) {
	t.RegisterAnchorWithRefs(name, size, nil)
}

// RegisterAnchorWithRefs records an anchor's own node count plus the
// anchors referenced (by alias) within its own definition, letting later
// ComputeExpansion calls walk the full transitive graph.
func (t *ExpansionTracker) RegisterAnchorWithRefs(name string, baseSize int, refs []string) {
	t.anchors[name] = &anchorInfo{baseSize: baseSize, refs: append([]string(nil), refs...)}
}

// ComputeExpansion computes the total node count an alias to name would
// introduce, including nodes contributed transitively through anchors that
// name's definition itself aliases. maxAllowed of 0 means unbounded. A
// cycle among anchor definitions is reported as an error.
func (t *ExpansionTracker) ComputeExpansion(name string, maxAllowed int) (int, error) {
	if t.visiting[name] {
		return 0, fmt.Errorf("yaml: cycle detected in anchor definitions involving %q", name)
	}
	info, ok := t.anchors[name]
	if !ok {
		return 0, fmt.Errorf("yaml: unknown anchor %q", name)
	}
	if info.sizeSet {
		return info.size, nil
	}
	t.visiting[name] = true
	defer delete(t.visiting, name)

	total := info.baseSize
	for _, ref := range info.refs {
		sub, err := t.ComputeExpansion(ref, 0)
		if err != nil {
			return 0, err
		}
		total += sub
		if maxAllowed > 0 && total > maxAllowed {
			return total, fmt.Errorf("yaml: alias expansion exceeds limit of %d nodes", maxAllowed)
		}
	}
	info.size = total
	info.sizeSet = true
	return total, nil
}

// ApplyAlias charges the expansion size of name's anchor against the
// running budget, returning an error if the cumulative total would exceed
// maxAllowed (0 = unbounded).
func (t *ExpansionTracker) ApplyAlias(name string, maxAllowed int) error {
	size, err := t.ComputeExpansion(name, maxAllowed)
	if err != nil {
		return err
	}
	t.spent += size
	if maxAllowed > 0 && t.spent > maxAllowed {
		return fmt.Errorf("yaml: alias expansion exceeds limit of %d nodes", maxAllowed)
	}
	return nil
}

// Spent returns the cumulative node count charged so far.
func (t *ExpansionTracker) Spent() int { return t.spent }
