package export

import (
	"strconv"
	"strings"
)

// sidAllocator hands out unique SBML SIds ([A-Za-z_][A-Za-z0-9_]*). The same
// source identifier always maps to the same SId.
type sidAllocator struct {
	used   map[string]struct{}
	byName map[string]string
}

func newSIDAllocator() *sidAllocator {
	return &sidAllocator{
		used:   make(map[string]struct{}),
		byName: make(map[string]string),
	}
}

// assign returns the SId of id, allocating one on first use.
func (a *sidAllocator) assign(id string) string {
	if sid, ok := a.byName[id]; ok {
		return sid
	}
	sid := a.fresh(id)
	a.byName[id] = sid
	return sid
}

// fresh allocates a new SId derived from base without registering a mapping.
func (a *sidAllocator) fresh(base string) string {
	sid := toSID(base)
	candidate := sid
	for n := 2; ; n++ {
		if _, taken := a.used[candidate]; !taken {
			break
		}
		candidate = sid + "_" + strconv.Itoa(n)
	}
	a.used[candidate] = struct{}{}
	return candidate
}

func toSID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	sid := b.String()
	if sid == "" || (sid[0] >= '0' && sid[0] <= '9') {
		sid = "_" + sid
	}
	return sid
}
