package category

import (
	"fmt"
	"strings"
)

// Category classifies a property's sale or construction status.
type Category string

const (
	VacantLot                Category = "vacant_lot"
	PlannedConstruction      Category = "planned_construction"
	UnderConstruction        Category = "under_construction"
	ForSaleCompleted         Category = "for_sale_completed"
	Pending                  Category = "pending"
	PendingUnderConstruction Category = "pending_under_construction"
	Sold                     Category = "sold"
	Competitors              Category = "competitors"
)

// all is the display order used by filter menus.
var all = []Category{
	VacantLot,
	PlannedConstruction,
	UnderConstruction,
	ForSaleCompleted,
	Pending,
	PendingUnderConstruction,
	Sold,
	Competitors,
}

// All returns every category in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, v := range all {
		if v == c {
			return true
		}
	}
	return false
}

// Parse converts raw input into a Category. Unknown values are an error.
func Parse(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

var labels = map[Category]string{
	VacantLot:                "Vacant Lots",
	PlannedConstruction:      "Planned for Construction",
	UnderConstruction:        "Homes Under Construction",
	ForSaleCompleted:         "Homes for Sale (Completed)",
	Pending:                  "Homes Pending",
	PendingUnderConstruction: "Pending & Under Construction",
	Sold:                     "Homes Sold",
	Competitors:              "Competitors",
}

// Label returns the human-readable filter label.
func (c Category) Label() string {
	return labels[c]
}
