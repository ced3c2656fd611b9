package models

// Book is one title from the Book-Crossing catalogue.
//
// TitleNorm and AuthorNorm hold the lowercased forms used for matching and
// grouping; case variants of the same title collapse onto one TitleNorm.
type Book struct {
	ISBN       string `gorm:"primaryKey;size:20"`
	Title      string `gorm:"not null"`
	Author     string `gorm:"size:255"`
	Year       int
	Publisher  string `gorm:"size:255"`
	TitleNorm  string `gorm:"size:255;index"`
	AuthorNorm string `gorm:"size:255;index"`
}
