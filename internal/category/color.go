package category

// Color is the marker fill for a category. Split colors render as a 50/50
// gradient of Primary and Secondary.
type Color struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Split     bool   `json:"split"`
}

// Solid reports whether the color is a single fill.
func (c Color) Solid() bool { return !c.Split }

// CSS returns a CSS background value for the color.
func (c Color) CSS() string {
	if c.Split {
		return "linear-gradient(90deg, " + c.Primary + " 50%, " + c.Secondary + " 50%)"
	}
	return c.Primary
}

const (
	hexBrown     = "#8B4513"
	hexLightBlue = "#93C5FD"
	hexBlue      = "#3B82F6"
	hexGreen     = "#10B981"
	hexRed       = "#EF4444"
	hexGold      = "#D4AF37"
	hexBlack     = "#000000"
)

var colors = map[Category]Color{
	VacantLot:           {Primary: hexBrown},
	PlannedConstruction: {Primary: hexLightBlue},
	UnderConstruction:   {Primary: hexBlue},
	ForSaleCompleted:    {Primary: hexGreen},
	Pending:             {Primary: hexRed},
	// pending_under_construction is its own category drawn as pending | under_construction.
	PendingUnderConstruction: {Primary: hexRed, Secondary: hexBlue, Split: true},
	Sold:                     {Primary: hexGold},
	Competitors:              {Primary: hexBlack},
}

// Color returns the display color of a category.
func (c Category) Color() Color {
	return colors[c]
}
