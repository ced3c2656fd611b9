package recommend

import (
	"context"
	"fmt"

	"github.com/shelfrec/shelfrec/internal/models"
	"gorm.io/gorm"
)

// PopularBook is one entry in the dataset-wide popularity list.
type PopularBook struct {
	Title      string
	NumRatings int
	AvgScore   float64
}

// Popular lists titles with at least minRatings nonzero ratings across the
// whole dataset, busiest first. A limit of zero returns all of them.
func Popular(ctx context.Context, db *gorm.DB, minRatings, limit int) ([]PopularBook, error) {
	if db == nil {
		return nil, fmt.Errorf("recommend: db is required")
	}

	q := db.WithContext(ctx).Model(&models.Rating{}).
		Select("books.title_norm AS title, COUNT(*) AS num_ratings, AVG(ratings.score) AS avg_score").
		Joins("JOIN books ON books.isbn = ratings.isbn").
		Where("ratings.score <> 0").
		Group("books.title_norm").
		Having("COUNT(*) >= ?", minRatings).
		Order("num_ratings DESC, title ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []PopularBook
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("recommend: query popular books: %w", err)
	}
	for i := range rows {
		rows[i].Title = capitalize(rows[i].Title)
		rows[i].AvgScore = round2(rows[i].AvgScore)
	}
	return rows, nil
}
