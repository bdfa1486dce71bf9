package layout

import "strings"

// Kind identifies the content variant a Node carries.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindBarcode
	KindQR
	KindSeparator
	KindContainer
)

// String returns the template element name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBarcode:
		return "barcode"
	case KindQR:
		return "qr"
	case KindSeparator:
		return "separator"
	case KindContainer:
		return "flex"
	}
	return "unknown"
}

// Display controls whether a node generates a box at all.
type Display int

const (
	DisplayFlex Display = iota
	DisplayNone
)

// Position selects the positioning scheme for an item.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
)

// Direction is the container's main-axis orientation.
type Direction int

const (
	DirectionRow Direction = iota
	DirectionRowReverse
	DirectionColumn
	DirectionColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d Direction) IsRow() bool {
	return d == DirectionRow || d == DirectionRowReverse
}

// IsReverse reports whether main-axis positions are mirrored.
func (d Direction) IsReverse() bool {
	return d == DirectionRowReverse || d == DirectionColumnReverse
}

// Wrap controls multi-line behavior of a container.
type Wrap int

const (
	WrapNone Wrap = iota
	WrapWrap
	WrapReverse
)

// Justify distributes free space along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignItems is the container-level default for cross-axis item alignment.
type AlignItems int

const (
	AlignItemsStretch AlignItems = iota
	AlignItemsStart
	AlignItemsCenter
	AlignItemsEnd
	AlignItemsBaseline
)

// AlignSelf overrides AlignItems for a single item.
type AlignSelf int

const (
	AlignSelfAuto AlignSelf = iota
	AlignSelfStretch
	AlignSelfStart
	AlignSelfCenter
	AlignSelfEnd
	AlignSelfBaseline
)

// AlignContent distributes flex lines along the cross axis.
type AlignContent int

const (
	AlignContentStart AlignContent = iota
	AlignContentCenter
	AlignContentEnd
	AlignContentSpaceBetween
	AlignContentSpaceAround
	AlignContentSpaceEvenly
	AlignContentStretch
)

// Overflow is carried through to the rasterizer, which applies its own
// clip for hidden containers. Geometry is identical either way.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

// ItemStyle is the uniform set of layout attributes every node variant
// carries. Dimension fields hold raw template strings (px/%/em/auto) and
// are resolved lazily against the parent box and font size.
type ItemStyle struct {
	Grow   float64
	Shrink float64
	Basis  string

	AlignSelf AlignSelf
	// Order is parsed and carried for downstream consumers but never
	// reorders siblings during layout.
	Order int

	Width, Height       string
	MinWidth, MinHeight string
	MaxWidth, MaxHeight string

	Margin  string
	Padding string

	Position                 Position
	Left, Right, Top, Bottom string

	// AspectRatio is width/height; zero means unset.
	AspectRatio float64

	Display Display
}

// ContainerStyle holds the attributes that exist only on containers.
type ContainerStyle struct {
	Direction Direction
	Wrap      Wrap

	// Gap applies to both axes unless overridden per axis. RowGap is the
	// gap between rows (vertical), ColumnGap between columns (horizontal).
	Gap, RowGap, ColumnGap string

	Justify      Justify
	AlignItems   AlignItems
	AlignContent AlignContent
	Overflow     Overflow
}

// Node is one element of the content tree handed to the engine by the
// template layer. Content fields are variant-specific; Style applies to
// every variant; Container and Children are meaningful only when Kind is
// KindContainer.
type Node struct {
	Kind Kind

	// Content fields.
	Text      string // KindText
	Source    string // KindImage: path or URL, decoded downstream
	Code      string // KindBarcode / KindQR payload
	Symbology string // KindBarcode symbology hint, opaque to layout

	Style     ItemStyle
	Container ContainerStyle
	Children  []*Node
}

// NewNode returns a node of the given kind with default item attributes.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind, Style: DefaultItemStyle()}
}

// DefaultItemStyle mirrors the CSS initial values the engine honors:
// grow 0, shrink 1, everything else auto/unset.
func DefaultItemStyle() ItemStyle {
	return ItemStyle{Shrink: 1}
}

// -- String to enum parsing --
//
// Template attributes arrive as free text. Each parser is total: an
// unrecognized token maps to the documented default rather than failing,
// since a best-effort render beats aborting over one bad field.

// ParseDirection maps a token to a Direction. Default: row.
func ParseDirection(s string) Direction {
	switch normalize(s) {
	case "row":
		return DirectionRow
	case "row-reverse":
		return DirectionRowReverse
	case "column":
		return DirectionColumn
	case "column-reverse":
		return DirectionColumnReverse
	}
	return DirectionRow
}

// ParseWrap maps a token to a Wrap mode. Default: nowrap.
func ParseWrap(s string) Wrap {
	switch normalize(s) {
	case "nowrap":
		return WrapNone
	case "wrap":
		return WrapWrap
	case "wrap-reverse":
		return WrapReverse
	}
	return WrapNone
}

// ParseJustify maps a token to a Justify mode. Default: start.
func ParseJustify(s string) Justify {
	switch normalize(s) {
	case "start", "flex-start":
		return JustifyStart
	case "center":
		return JustifyCenter
	case "end", "flex-end":
		return JustifyEnd
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	}
	return JustifyStart
}

// ParseAlignItems maps a token to an AlignItems mode. Default: stretch.
func ParseAlignItems(s string) AlignItems {
	switch normalize(s) {
	case "stretch":
		return AlignItemsStretch
	case "start", "flex-start":
		return AlignItemsStart
	case "center":
		return AlignItemsCenter
	case "end", "flex-end":
		return AlignItemsEnd
	case "baseline":
		return AlignItemsBaseline
	}
	return AlignItemsStretch
}

// ParseAlignSelf maps a token to an AlignSelf mode. Default: auto.
func ParseAlignSelf(s string) AlignSelf {
	switch normalize(s) {
	case "auto":
		return AlignSelfAuto
	case "stretch":
		return AlignSelfStretch
	case "start", "flex-start":
		return AlignSelfStart
	case "center":
		return AlignSelfCenter
	case "end", "flex-end":
		return AlignSelfEnd
	case "baseline":
		return AlignSelfBaseline
	}
	return AlignSelfAuto
}

// ParseAlignContent maps a token to an AlignContent mode.
// Default: start. This intentionally diverges from the CSS initial value
// (stretch) so that wrapped lines pack to the container start unless a
// template opts in to distribution.
func ParseAlignContent(s string) AlignContent {
	switch normalize(s) {
	case "start", "flex-start":
		return AlignContentStart
	case "center":
		return AlignContentCenter
	case "end", "flex-end":
		return AlignContentEnd
	case "space-between":
		return AlignContentSpaceBetween
	case "space-around":
		return AlignContentSpaceAround
	case "space-evenly":
		return AlignContentSpaceEvenly
	case "stretch":
		return AlignContentStretch
	}
	return AlignContentStart
}

// ParsePosition maps a token to a Position scheme. Default: static.
func ParsePosition(s string) Position {
	switch normalize(s) {
	case "static":
		return PositionStatic
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	}
	return PositionStatic
}

// ParseDisplay maps a token to a Display mode. Default: flex.
func ParseDisplay(s string) Display {
	if normalize(s) == "none" {
		return DisplayNone
	}
	return DisplayFlex
}

// ParseOverflow maps a token to an Overflow mode. Default: visible.
func ParseOverflow(s string) Overflow {
	if normalize(s) == "hidden" {
		return OverflowHidden
	}
	return OverflowVisible
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
