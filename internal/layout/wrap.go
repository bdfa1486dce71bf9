package layout

import "math"

// flexLine is a window over a wrapping container's in-flow children plus
// the line's consumed main size and resolved cross size. Lines are scratch
// state, discarded once the container's children are positioned.
type flexLine struct {
	items      []*flexItem
	mainSize   float64
	crossSize  float64
	crossStart float64
}

// breakLines greedily partitions items into lines. A child joins the
// current line unless its clamped basis plus margins (plus the gap that
// would precede it) no longer fits and the line already holds at least one
// item. The gap is never charged before a line's first item. Exceeding the
// configured line ceiling aborts with a limit error.
func (e *Engine) breakLines(items []*flexItem, available, gap float64) ([]*flexLine, error) {
	lines := []*flexLine{{}}
	current := lines[0]
	running := 0.0

	for _, it := range items {
		outer := ClampSize(it.basis, it.min, it.max) + it.mainMarginTotal()
		gapBefore := 0.0
		if len(current.items) > 0 {
			gapBefore = gap
		}

		if running+gapBefore+outer > available+sizeEpsilon && len(current.items) > 0 {
			current.mainSize = running
			current = &flexLine{}
			lines = append(lines, current)
			if len(lines) > e.limits.MaxFlexLines {
				return nil, &LimitError{
					Name: "max flex lines", Limit: e.limits.MaxFlexLines, Observed: len(lines),
				}
			}
			running = 0
			gapBefore = 0
		}

		current.items = append(current.items, it)
		running += gapBefore + outer
	}
	current.mainSize = running
	return lines, nil
}

// measureLineCross sets each line's cross size to the tallest item
// footprint on the line (item cross size plus its cross margins).
func measureLineCross(lines []*flexLine, horizontal bool) {
	for _, line := range lines {
		maxCross := 0.0
		for _, it := range line.items {
			maxCross = math.Max(maxCross, it.outerCross(horizontal))
		}
		line.crossSize = maxCross
	}
}

// placeLinesCross distributes lines across the container's cross axis per
// align-content, using the same distribution and overflow-fallback rules
// as justify-content. Stretch adds an equal share of positive free space
// to every line's cross size; combined with wrap-reverse it degrades to
// start, because the reverse flip is a separate post-processing pass that
// cannot be reconciled with symmetric stretch distribution.
func placeLinesCross(lines []*flexLine, align AlignContent, availableCross, padStart, lineGap float64, crossReverse bool) {
	used := lineGap * float64(len(lines)-1)
	for _, line := range lines {
		used += line.crossSize
	}
	free := availableCross - used

	if align == AlignContentStretch {
		if free > 0 && !crossReverse {
			share := free / float64(len(lines))
			for _, line := range lines {
				line.crossSize += share
			}
		}
		align = AlignContentStart
		free = 0
	}

	lead, between := justifyOffsets(alignContentJustify(align), free, len(lines))

	cursor := padStart + lead
	for i, line := range lines {
		if i > 0 {
			cursor += lineGap + between
		}
		line.crossStart = cursor
		cursor += line.crossSize
	}
}

// alignContentJustify maps align-content onto the shared justification
// distribution used for the main axis.
func alignContentJustify(align AlignContent) Justify {
	switch align {
	case AlignContentCenter:
		return JustifyCenter
	case AlignContentEnd:
		return JustifyEnd
	case AlignContentSpaceBetween:
		return JustifySpaceBetween
	case AlignContentSpaceAround:
		return JustifySpaceAround
	case AlignContentSpaceEvenly:
		return JustifySpaceEvenly
	default:
		return JustifyStart
	}
}
