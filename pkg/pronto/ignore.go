package pronto

import "sort"

// IgnoreSet is a policy set of codes excluded from processing: price
// rule codes the resolver must skip, bin locations the ticket list must
// not print, brands out of scope for barcode compliance. Membership is
// tested on the folded form.
type IgnoreSet struct {
	members map[string]bool
}

// NewIgnoreSet builds an ignore set from raw configured codes.
func NewIgnoreSet(codes ...string) IgnoreSet {
	members := make(map[string]bool, len(codes))
	for _, c := range codes {
		members[Key(c)] = true
	}
	return IgnoreSet{members: members}
}

// Contains reports whether the folded form of code is in the set.
func (s IgnoreSet) Contains(code string) bool {
	return s.members[Key(code)]
}

// Len returns the number of distinct folded members.
func (s IgnoreSet) Len() int { return len(s.members) }

// Values returns the folded members in sorted order.
func (s IgnoreSet) Values() []string {
	out := make([]string, 0, len(s.members))
	for m := range s.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
