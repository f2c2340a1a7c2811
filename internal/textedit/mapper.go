package textedit

import (
	"loupe/internal/source"
)

// Mapper converts offsets between the coordinate space of a stale snapshot
// text and the current live text, anchored on the changed region between
// them. A Mapper is immutable and cheap to construct per query.
type Mapper struct {
	oldLen    uint32
	newLen    uint32
	region    Region
	hasRegion bool
}

// NewMapper computes the changed region between the two texts.
func NewMapper(oldText, newText []byte) Mapper {
	region, ok := ChangedRegion(oldText, newText)
	return Mapper{
		oldLen:    uint32(len(oldText)),
		newLen:    uint32(len(newText)),
		region:    region,
		hasRegion: ok,
	}
}

// HasChange reports whether the texts differ at all.
func (m Mapper) HasChange() bool {
	return m.hasRegion
}

// Region returns the changed region; valid only when HasChange.
func (m Mapper) Region() Region {
	return m.region
}

// OldRegion returns the changed span in stale coordinates. When the texts
// are identical it returns an empty span at offset zero; callers holding a
// cursor should anchor the empty span there instead.
func (m Mapper) OldRegion() source.Span {
	if !m.hasRegion {
		return source.Span{}
	}
	return m.region.Old
}

// OldOffset maps an offset in the live text to the corresponding offset in
// the stale text. Offsets in the untouched prefix and suffix map exactly;
// offsets inside the changed region are linearly interpolated, a best-effort
// approximation for localized homogeneous replacements.
func (m Mapper) OldOffset(cursor uint32) uint32 {
	if !m.hasRegion {
		return cursor
	}
	if cursor <= m.region.New.Start {
		return cursor
	}
	if cursor >= m.region.New.End {
		// Якорь от конца: нетронутый суффикс имеет постоянный сдвиг.
		return m.oldLen - (m.newLen - cursor)
	}
	return m.interpolate(cursor)
}

func (m Mapper) interpolate(cursor uint32) uint32 {
	newLen := m.region.New.Len()
	oldLen := m.region.Old.Len()
	if newLen == 0 {
		return m.region.Old.Start
	}
	relative := uint64(cursor - m.region.New.Start)
	mapped := m.region.Old.Start + uint32(relative*uint64(oldLen)/uint64(newLen))
	if mapped > m.region.Old.End {
		mapped = m.region.Old.End
	}
	return mapped
}

// NewOffset maps a stale offset forward into the live text. Inverse of
// OldOffset under the same anchoring rules.
func (m Mapper) NewOffset(stale uint32) uint32 {
	if !m.hasRegion {
		return stale
	}
	if stale <= m.region.Old.Start {
		return stale
	}
	if stale >= m.region.Old.End {
		return m.newLen - (m.oldLen - stale)
	}
	oldLen := m.region.Old.Len()
	if oldLen == 0 {
		return m.region.New.Start
	}
	relative := uint64(stale - m.region.Old.Start)
	mapped := m.region.New.Start + uint32(relative*uint64(m.region.New.Len())/uint64(oldLen))
	if mapped > m.region.New.End {
		mapped = m.region.New.End
	}
	return mapped
}
