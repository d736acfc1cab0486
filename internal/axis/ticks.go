package axis

import "math"

// TickKind selects where decorations are placed along an axis.
type TickKind int

const (
	// TickWhole places ticks on step boundaries (category cell edges).
	TickWhole TickKind = iota
	// TickHalf places ticks half a step past each boundary (cell centres).
	TickHalf
)

// Tick is one decoration position.
type Tick struct {
	// Value is the data value at the step boundary the tick belongs to.
	Value float64
	// Label is the category label on categorical axes.
	Label string
	// Offset is the pixel offset along the axis.
	Offset float64
}

// Ticks enumerates decoration positions for the axis.
func (a *Axis) Ticks(kind TickKind) []Tick {
	if a.kind == Categorical {
		return a.categoryTicks(kind)
	}
	return a.valueTicks(kind)
}

func (a *Axis) categoryTicks(kind TickKind) []Tick {
	cell := a.CellWidth()
	ticks := make([]Tick, 0, len(a.labels))
	for i, l := range a.labels {
		off := float64(i) * cell
		if kind == TickHalf {
			off += cell / 2
		}
		ticks = append(ticks, Tick{Value: float64(i), Label: l, Offset: off})
	}
	return ticks
}

func (a *Axis) valueTicks(kind TickKind) []Tick {
	inc := a.Increment()
	if inc == 0 {
		if kind == TickHalf {
			return nil
		}
		return []Tick{{Value: 0, Offset: a.zero}}
	}

	n := int(math.Round(a.window.Extent() / inc))
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := a.window.Min + float64(i)*inc
		if kind == TickHalf {
			if i == n {
				break
			}
			ticks = append(ticks, Tick{Value: v, Offset: a.Position(v + inc/2)})
			continue
		}
		ticks = append(ticks, Tick{Value: v, Offset: a.Position(v)})
	}
	return ticks
}
