package models

// JobType is a kind of renovation work (Painting, Flooring, Drywall).
// The set only grows by explicit admin action.
type JobType struct {
	JobTypeID int    `gorm:"column:job_type_id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:job_type;not null;uniqueIndex"`
}

func (JobType) TableName() string { return "job_types" }
