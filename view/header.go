package view

type Columns string

const (
	ColumnsSingle Columns = "single"
	ColumnsTwo    Columns = "two"
)

// Header of a page. RightSlot is an HTML fragment and is rendered unescaped.
type Header struct {
	Title     string
	Subtitle  string
	RightSlot string
}

type HeaderLayout struct {
	Columns      Columns
	ShowSubtitle bool
	ShowSlot     bool
}

// Layout derives the arrangement from the filled fields only.
func (h Header) Layout() HeaderLayout {
	layout := HeaderLayout{
		Columns:      ColumnsSingle,
		ShowSubtitle: h.Subtitle != "",
		ShowSlot:     h.RightSlot != "",
	}
	if layout.ShowSlot {
		layout.Columns = ColumnsTwo
	}
	return layout
}
