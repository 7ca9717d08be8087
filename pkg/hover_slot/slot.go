package hover_slot

import "math"

const DefaultPad = 12

type Point struct {
	X float64
	Y float64
}

// Rect is a box in the same coordinate space as the pointer.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }
func (r Rect) Right() float64  { return r.Left + r.Width }

func (r Rect) Contains(p Point) bool {
	return p.Y >= r.Top && p.Y <= r.Bottom() && p.X >= r.Left && p.X <= r.Right()
}

// Row is a rendered row of the cell, top to bottom.
type Row struct {
	Bounds       Rect
	OccurrenceID string
}

// Slot is the gap where a new event would be inserted. Start, End and Center
// are offsets from the top of the content area.
type Slot struct {
	Index                int
	Start                float64
	End                  float64
	Center               float64
	Width                float64
	Ratio                float64
	PreviousOccurrenceID string
	NextOccurrenceID     string
}

// Same reports whether two slots would draw the same indicator.
func (s Slot) Same(other Slot) bool {
	return s.Index == other.Index &&
		math.Abs(s.Center-other.Center) < 1 &&
		math.Abs(s.Width-other.Width) < 1 &&
		s.PreviousOccurrenceID == other.PreviousOccurrenceID &&
		s.NextOccurrenceID == other.NextOccurrenceID
}

// Locate finds the insertion slot under the pointer. It returns false when
// the pointer is outside the content, over a row, or in no slot.
func Locate(pointer Point, content Rect, rows []Row, pad float64) (Slot, bool) {
	if content.Height <= 0 || !content.Contains(pointer) {
		return Slot{}, false
	}
	for _, row := range rows {
		if row.Bounds.Contains(pointer) {
			return Slot{}, false
		}
	}

	relativeY := pointer.Y - content.Top
	for _, slot := range Slots(content, rows, pad) {
		if relativeY >= slot.Start && relativeY <= slot.End {
			slot.Ratio = slot.Center / content.Height
			return slot, true
		}
	}
	return Slot{}, false
}

// Slots lists the candidate slots of a cell in top to bottom order.
func Slots(content Rect, rows []Row, pad float64) []Slot {
	h := content.Height
	if len(rows) == 0 {
		height := math.Max(h, pad*2)
		return []Slot{{Index: 0, Start: 0, End: height, Center: height / 2, Width: content.Width}}
	}

	type bounds struct{ top, bottom float64 }
	relative := make([]bounds, len(rows))
	for i, row := range rows {
		relative[i] = bounds{top: row.Bounds.Top - content.Top, bottom: row.Bounds.Bottom() - content.Top}
	}
	width := rows[0].Bounds.Width
	lastID := rows[len(rows)-1].OccurrenceID

	var slots []Slot
	if first := relative[0]; first.top >= 0 {
		slots = append(slots, Slot{
			Index:            0,
			Start:            0,
			End:              math.Min(first.top+pad, h),
			Center:           math.Min(first.top/2, pad),
			Width:            width,
			NextOccurrenceID: rows[0].OccurrenceID,
		})
	}
	for i := 1; i < len(relative); i++ {
		gapStart, gapEnd := relative[i-1].bottom, relative[i].top
		if gapEnd-gapStart < 0 {
			continue
		}
		slots = append(slots, Slot{
			Index:                i,
			Start:                math.Max(0, gapStart-pad),
			End:                  math.Min(h, gapEnd+pad),
			Center:               gapStart + (gapEnd-gapStart)/2,
			Width:                width,
			PreviousOccurrenceID: rows[i-1].OccurrenceID,
			NextOccurrenceID:     rows[i].OccurrenceID,
		})
	}
	if last := relative[len(relative)-1]; h-last.bottom >= 0 {
		slots = append(slots, Slot{
			Index:                len(rows),
			Start:                math.Max(0, last.bottom-pad),
			End:                  math.Min(h, last.bottom+pad*2),
			Center:               last.bottom,
			Width:                width,
			PreviousOccurrenceID: lastID,
		})
	}
	if len(slots) == 0 {
		slots = append(slots, Slot{
			Index:                len(rows),
			Start:                math.Max(0, h-pad),
			End:                  h,
			Center:               math.Max(0, h-pad/2),
			Width:                width,
			PreviousOccurrenceID: lastID,
		})
	}
	return slots
}
