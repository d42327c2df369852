package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all top-level items of a config file.
type fileRoot struct {
	Projects []*projectBlock `hcl:"project,block"`
	Scan     *scanBlock      `hcl:"scan,block"`
	Layout   *layoutBlock    `hcl:"layout,block"`
	Search   *searchBlock    `hcl:"search,block"`
	Colors   hcl.Expression  `hcl:"colors,optional"`
	Remain   hcl.Body        `hcl:",remain"`
}

// projectBlock maps to `project "<alias>" { ... }`.
type projectBlock struct {
	Alias string `hcl:"alias,label"`
	Path  string `hcl:"path"`
}

// scanBlock maps to `scan { ... }`. A nil slice means the attribute was not
// set, an empty one that it was set to [].
type scanBlock struct {
	Include []string `hcl:"include,optional"`
	Exclude []string `hcl:"exclude,optional"`
}

// layoutBlock maps to `layout { ... }`.
type layoutBlock struct {
	Orientation   *string  `hcl:"orientation,optional"`
	RowSpacing    *float64 `hcl:"row_spacing,optional"`
	ColumnSpacing *float64 `hcl:"column_spacing,optional"`
	MinSeparation *float64 `hcl:"min_separation,optional"`
}

// searchBlock maps to `search { ... }`.
type searchBlock struct {
	MinSimilarity *float64 `hcl:"min_similarity,optional"`
	Limit         *int     `hcl:"limit,optional"`
}
