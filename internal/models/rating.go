package models

// Rating is one user's score for one book. Score 0 is an implicit rating;
// it is stored but excluded from every recommendation query.
type Rating struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID int    `gorm:"index;not null"`
	ISBN   string `gorm:"size:20;index;not null"`
	Score  int    `gorm:"not null"`
}
