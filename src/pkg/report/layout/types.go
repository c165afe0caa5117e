package layout

// PointToMM converts font sizes (points) into page units (millimetres).
const PointToMM = 25.4 / 72

/*
PageSpec describes the page geometry in millimetres. All block coordinates
are absolute within a page with the origin at the top-left corner.
*/
type PageSpec struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Margin float64 `json:"margin,omitempty"`
}

// A4 is the default page: 210x297mm with a 20mm margin.
func A4() PageSpec {
	return PageSpec{Width: 210, Height: 297, Margin: 20}
}

func (p PageSpec) PrintableWidth() float64 { return p.Width - 2*p.Margin }
func (p PageSpec) PrintableHeight() float64 { return p.Height - 2*p.Margin }

type Section int

const (
	SectionTitle Section = iota
	SectionSummary
	SectionChart
	SectionCategoryTable
	SectionReductionTarget
	SectionRecommendations
	SectionTotalSavings
	SectionFooter
)

func (s Section) String() string {
	switch s {
	case SectionTitle:
		return "title"
	case SectionSummary:
		return "summary"
	case SectionChart:
		return "chart"
	case SectionCategoryTable:
		return "category-table"
	case SectionReductionTarget:
		return "reduction-target"
	case SectionRecommendations:
		return "recommendations"
	case SectionTotalSavings:
		return "total-savings"
	case SectionFooter:
		return "footer"
	default:
		return "unknown"
	}
}

/*
ColorRole names a color by purpose. The renderer owns the mapping from
roles to actual colors.
*/
type ColorRole int

const (
	ColorText ColorRole = iota
	ColorInverse
	ColorMuted
	ColorAccent
	ColorStripe
	ColorSecondaryAccent
	ColorSuccess
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type TextStyle struct {
	Size   float64
	Bold   bool
	Italic bool
	Color  ColorRole
	Align  Align
}

/*
Position is the final placement of a block: page index, top-left corner,
extent, and the section the block belongs to.
*/
type Position struct {
	Page    int
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Section Section
}

func (p Position) Placement() Position { return p }
func (p Position) Bottom() float64 { return p.Y + p.Height }

// Cell is one piece of text with its own box. Text is vertically centred in the box.
type Cell struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Text   string
	Style  TextStyle
}

/*
Block is one positioned drawable unit. The concrete types below form a
closed set; the renderer switches on them.
*/
type Block interface {
	Placement() Position
}

type SectionHeader struct {
	Position
	Text  string
	Style TextStyle
}

type KeyValueRow struct {
	Position
	Cells []Cell
}

type TableRow struct {
	Position
	Index   int
	Striped bool
	Cells   []Cell
}

type WrappedText struct {
	Position
	Lines      []string
	LineHeight float64
	Style      TextStyle
}

// LineCells splits the paragraph into one cell per line, top to bottom.
func (w WrappedText) LineCells() []Cell {
	cells := make([]Cell, 0, len(w.Lines))
	for index, line := range w.Lines {
		cells = append(cells, Cell{
			X:      w.X,
			Y:      w.Y + float64(index)*w.LineHeight,
			Width:  w.Width,
			Height: w.LineHeight,
			Text:   line,
			Style:  w.Style,
		})
	}
	return cells
}

type Image struct {
	Position
	Data []byte
}

type BandRole int

const (
	BandTitle BandRole = iota
	BandReductionTarget
	BandRecommendation
	BandTotalSavings
)

/*
FilledBand is a solid rectangle drawn behind other blocks. Cells holds text
that belongs to the band itself, like the report title or a recommendation
label.
*/
type FilledBand struct {
	Position
	Role  BandRole
	Color ColorRole
	Cells []Cell
}

type WarningKind string

const (
	WarningLayoutOverflow WarningKind = "layout_overflow"
	WarningImageEmbed     WarningKind = "image_embed"
)

// Warning is a non-fatal problem found while laying out or rendering a report.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Page    int         `json:"page"`
	Section string      `json:"section"`
	Block   int         `json:"block"`
	Message string      `json:"message"`
}
