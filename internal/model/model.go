package model

import (
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&LayoutInfo{},
	&Station{},
	&Line{},
}

// LayoutInfo contains metadata about the persisted layout
type LayoutInfo struct {
	gorm.Model
	Name        string  `json:"name" gorm:"size:127"`
	ImagePath   string  `json:"imagePath" gorm:"size:255"`
	HeightScale float64 `json:"heightScale"`
	MinX        float64 `json:"minX"`
	MinY        float64 `json:"minY"`
	MaxX        float64 `json:"maxX"`
	MaxY        float64 `json:"maxY"`
}

func (*LayoutInfo) TableName() string {
	return "layout_infos"
}

// Station is the flattened persisted form of a station. Coordinates are
// stored as fixed-point text, the same representation the editor shows
// and accepts for manual edits.
type Station struct {
	gorm.Model
	Name string `json:"name" gorm:"size:127;index:idx_station_name"`
	X    string `json:"x" gorm:"size:31"`
	Y    string `json:"y" gorm:"size:31"`
	Z    string `json:"z" gorm:"size:31"`
}

func (*Station) TableName() string {
	return "stations"
}

// Line is the flattened persisted form of a line. Station references are
// stored as a joined list of station names, not ids; ids are reassigned
// on restore.
type Line struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:127;index:idx_line_name"`
	Stations string `json:"stations" gorm:"size:1023"`
	Color    string `json:"color" gorm:"size:7"`
}

func (*Line) TableName() string {
	return "lines"
}
