package piico

import "piicoinfo-go/types"

// DescribeConnected reports every observed address in scan order. An address
// found in no table yields an unknown-device record.
func (r *Registry) DescribeConnected(mode types.Mode, ext types.Table) []types.Record {
	if len(r.connected) == 0 {
		return []types.Record{{Kind: types.RecordNothingConnected}}
	}
	var out []types.Record
	for _, a := range r.connected {
		recs, hit := r.lookup(a, mode, ext)
		if !hit {
			recs = append(recs, types.Record{Kind: types.RecordUnknownDevice, Addr: a})
		}
		out = append(out, recs...)
	}
	return out
}

// DescribeAddress reports what a may be, whether or not it is connected.
func (r *Registry) DescribeAddress(a types.Address, mode types.Mode, ext types.Table) []types.Record {
	recs, hit := r.lookup(a, mode, ext)
	if !hit {
		return []types.Record{{Kind: types.RecordUnknownID, Addr: a}}
	}
	return recs
}

// ListAll reports the primary table in address order, then the conflict
// table if includeConflicts is set, then ext if it is non-nil. Each optional
// section starts with a heading record.
func (r *Registry) ListAll(mode types.Mode, includeConflicts bool, ext types.Table) []types.Record {
	out := appendTable(nil, r.primary, types.SourcePrimary, mode)
	if includeConflicts {
		out = append(out, types.Record{Kind: types.RecordConflictHeading})
		out = appendTable(out, r.conflicts, types.SourceConflict, mode)
	}
	if ext != nil {
		out = append(out, types.Record{Kind: types.RecordExternalHeading})
		out = appendTable(out, ext, types.SourceExternal, mode)
	}
	return out
}

// lookup checks primary, conflicts, then ext. A later hit on an address that
// already matched is preceded by a conflict marker.
func (r *Registry) lookup(a types.Address, mode types.Mode, ext types.Table) (out []types.Record, hit bool) {
	if d, ok := r.primary.Lookup(a); ok {
		out = append(out, device(a, d, types.SourcePrimary, mode))
		hit = true
	}
	if d, ok := r.conflicts.Lookup(a); ok {
		if hit {
			out = append(out, types.Record{Kind: types.RecordConflict, Addr: a})
		}
		out = append(out, device(a, d, types.SourceConflict, mode))
		hit = true
	}
	if d, ok := ext.Lookup(a); ok {
		if hit {
			out = append(out, types.Record{Kind: types.RecordExternalConflict, Addr: a})
		}
		out = append(out, device(a, d, types.SourceExternal, mode))
		hit = true
	}
	return out, hit
}

func appendTable(out []types.Record, t types.Table, src types.Source, mode types.Mode) []types.Record {
	for _, a := range t.Addresses() {
		out = append(out, device(a, t[a], src, mode))
	}
	return out
}

func device(a types.Address, d types.Descriptor, src types.Source, mode types.Mode) types.Record {
	return types.Record{Kind: types.RecordDevice, Addr: a, Source: src, Text: d.Name(mode)}
}
