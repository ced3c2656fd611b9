// Package recommend ranks books by how closely their user ratings
// correlate with the ratings of a target book.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/shelfrec/shelfrec/internal/dataset"
	"github.com/shelfrec/shelfrec/internal/models"
	"gorm.io/gorm"
)

// ErrBookNotFound means no user has rated a book matching the request.
var ErrBookNotFound = errors.New("recommend: book not found")

// Recommendation is one ranked result.
type Recommendation struct {
	Title       string
	AvgRating   float64
	Correlation float64 // NaN when undefined
}

// Options tunes a recommendation run.
type Options struct {
	// MinRatings is the minimum number of rating rows, among the target
	// book's readers, for a title to enter the correlation matrix.
	MinRatings int
	// TopN caps the number of results. Zero means no cap.
	TopN int
}

// ratingRow is one nonzero rating joined to its normalized title.
type ratingRow struct {
	UserID int
	Title  string
	Score  int
}

// Recommend finds books whose ratings correlate with the target book's.
//
// The pipeline follows the rating-overlap approach: find the readers of the
// target book, restrict to books those readers rated often enough, pivot to
// a user-by-title matrix, then rank every other title by the Pearson
// correlation of its column against the target's.
func Recommend(ctx context.Context, db *gorm.DB, title, author string, opts Options) ([]Recommendation, error) {
	if db == nil {
		return nil, fmt.Errorf("recommend: db is required")
	}
	db = db.WithContext(ctx)
	titleNorm := dataset.Norm(title)
	authorNorm := dataset.Norm(author)

	readers, err := followers(db, titleNorm, authorNorm)
	if err != nil {
		return nil, err
	}
	if len(readers) == 0 {
		return nil, ErrBookNotFound
	}

	rows, err := readerRatings(db, readers)
	if err != nil {
		return nil, err
	}

	matrix, counts, sums := pivot(rows, opts.MinRatings)

	// The target needs its own column to correlate against; with fewer
	// than MinRatings reader ratings it falls below its own cutoff and
	// there is nothing to rank.
	target, ok := matrix[titleNorm]
	if !ok {
		return []Recommendation{}, nil
	}

	titles := make([]string, 0, len(matrix))
	for t := range matrix {
		if t != titleNorm {
			titles = append(titles, t)
		}
	}
	sort.Strings(titles)

	recs := make([]Recommendation, 0, len(titles))
	for _, t := range titles {
		x, y := pairedColumns(target, matrix[t])
		recs = append(recs, Recommendation{
			Title:       capitalize(t),
			AvgRating:   round2(float64(sums[t]) / float64(counts[t])),
			Correlation: round2(pearson(x, y)),
		})
	}

	// Highest correlation first, undefined correlations last.
	sort.SliceStable(recs, func(i, j int) bool {
		ci, cj := recs[i].Correlation, recs[j].Correlation
		if math.IsNaN(ci) {
			return false
		}
		if math.IsNaN(cj) {
			return true
		}
		return ci > cj
	})

	if opts.TopN > 0 && len(recs) > opts.TopN {
		recs = recs[:opts.TopN]
	}
	return recs, nil
}

// followers returns the distinct users with a nonzero rating of a book
// whose normalized title matches exactly and whose normalized author
// contains the author substring. An empty author matches every author.
func followers(db *gorm.DB, titleNorm, authorNorm string) ([]int, error) {
	var userIDs []int
	err := db.Model(&models.Rating{}).
		Joins("JOIN books ON books.isbn = ratings.isbn").
		Where("ratings.score <> 0").
		Where("books.title_norm = ?", titleNorm).
		Where("books.author_norm LIKE ?", "%"+authorNorm+"%").
		Distinct().
		Pluck("ratings.user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("recommend: query followers: %w", err)
	}
	return userIDs, nil
}

// readerRatings returns every nonzero rating by the given users, joined to
// the rated book's normalized title.
func readerRatings(db *gorm.DB, userIDs []int) ([]ratingRow, error) {
	var rows []ratingRow
	err := db.Model(&models.Rating{}).
		Select("ratings.user_id AS user_id, books.title_norm AS title, ratings.score AS score").
		Joins("JOIN books ON books.isbn = ratings.isbn").
		Where("ratings.score <> 0").
		Where("ratings.user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recommend: query reader ratings: %w", err)
	}
	return rows, nil
}

// pivot builds the user-by-title rating matrix from raw rows, keeping only
// titles with at least minRatings rows. Duplicate (user, title) cells are
// averaged. It also returns per-title row counts and score sums for mean
// rating display.
func pivot(rows []ratingRow, minRatings int) (matrix map[string]map[int]float64, counts map[string]int, sums map[string]int) {
	counts = make(map[string]int)
	sums = make(map[string]int)
	for _, r := range rows {
		counts[r.Title]++
		sums[r.Title] += r.Score
	}

	type cell struct {
		sum float64
		n   int
	}
	cells := make(map[string]map[int]*cell)
	for _, r := range rows {
		if counts[r.Title] < minRatings {
			continue
		}
		byUser, ok := cells[r.Title]
		if !ok {
			byUser = make(map[int]*cell)
			cells[r.Title] = byUser
		}
		c, ok := byUser[r.UserID]
		if !ok {
			c = &cell{}
			byUser[r.UserID] = c
		}
		c.sum += float64(r.Score)
		c.n++
	}

	matrix = make(map[string]map[int]float64, len(cells))
	for title, byUser := range cells {
		col := make(map[int]float64, len(byUser))
		for user, c := range byUser {
			col[user] = c.sum / float64(c.n)
		}
		matrix[title] = col
	}
	return matrix, counts, sums
}

// capitalize upper-cases the first rune of a normalized title.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
