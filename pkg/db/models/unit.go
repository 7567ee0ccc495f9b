package models

// Unit is a unit of measure for a material (Square Foot, Gallon, Each).
type Unit struct {
	UnitID int    `gorm:"column:unit_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:unit_name;not null;uniqueIndex"`
}

func (Unit) TableName() string { return "units" }
