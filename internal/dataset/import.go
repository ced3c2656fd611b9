package dataset

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shelfrec/shelfrec/internal/models"
	"gorm.io/gorm"
)

// insertBatchSize bounds the row count per INSERT during import.
const insertBatchSize = 500

// Importer loads the Book-Crossing CSVs into the store.
type Importer struct {
	DB      *gorm.DB
	Books   string // path to BX-Books.csv
	Ratings string // path to BX-Book-Ratings.csv
}

// Result summarizes a completed import.
type Result struct {
	Job           *models.ImportJob
	BooksLoaded   int
	RatingsLoaded int
	RowsSkipped   int
}

// Run imports both CSV files inside a transaction, replacing any previous
// dataset. An ImportJob row records the run; on failure the job is marked
// with the error and the previous dataset is left intact.
func (im *Importer) Run(ctx context.Context, source string) (*Result, error) {
	if im.DB == nil {
		return nil, fmt.Errorf("dataset: db is required")
	}

	job := &models.ImportJob{Source: source, Status: models.ImportPending}
	if err := im.DB.Create(job).Error; err != nil {
		return nil, fmt.Errorf("dataset: create import job: %w", err)
	}

	now := time.Now()
	job.Status = models.ImportRunning
	job.StartedAt = &now
	if err := im.DB.Save(job).Error; err != nil {
		return nil, fmt.Errorf("dataset: start import job: %w", err)
	}

	res, err := im.load(ctx)
	if err != nil {
		job.Status = models.ImportError
		job.ErrorMessage = err.Error()
		im.DB.Save(job)
		return nil, err
	}

	done := time.Now()
	job.Status = models.ImportDone
	job.BooksLoaded = res.BooksLoaded
	job.RatingsLoaded = res.RatingsLoaded
	job.RowsSkipped = res.RowsSkipped
	job.CompletedAt = &done
	if err := im.DB.Save(job).Error; err != nil {
		return nil, fmt.Errorf("dataset: finish import job: %w", err)
	}
	res.Job = job
	return res, nil
}

// load parses both files and swaps the dataset in one transaction.
func (im *Importer) load(ctx context.Context) (*Result, error) {
	books, skippedBooks, err := readBooks(im.Books)
	if err != nil {
		return nil, err
	}
	ratings, skippedRatings, err := readRatings(im.Ratings)
	if err != nil {
		return nil, err
	}

	res := &Result{
		BooksLoaded:   len(books),
		RatingsLoaded: len(ratings),
		RowsSkipped:   skippedBooks + skippedRatings,
	}

	err = im.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Rating{}).Error; err != nil {
			return fmt.Errorf("dataset: clear ratings: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Book{}).Error; err != nil {
			return fmt.Errorf("dataset: clear books: %w", err)
		}
		if len(books) > 0 {
			if err := tx.CreateInBatches(books, insertBatchSize).Error; err != nil {
				return fmt.Errorf("dataset: insert books: %w", err)
			}
		}
		if len(ratings) > 0 {
			if err := tx.CreateInBatches(ratings, insertBatchSize).Error; err != nil {
				return fmt.Errorf("dataset: insert ratings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// readBooks parses BX-Books.csv. Image URL columns are ignored. Rows
// without an ISBN or title are skipped.
func readBooks(path string) ([]models.Book, int, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, 0, err
	}

	isbn := t.col("ISBN")
	title := t.col("Book-Title")
	author := t.col("Book-Author")
	year := t.col("Year-Of-Publication")
	publisher := t.col("Publisher")
	if isbn < 0 || title < 0 || author < 0 {
		return nil, 0, fmt.Errorf("dataset: %s: missing ISBN/Book-Title/Book-Author columns", path)
	}

	skipped := t.skipped
	seen := make(map[string]bool, len(t.rows))
	books := make([]models.Book, 0, len(t.rows))
	for _, row := range t.rows {
		b := models.Book{
			ISBN:   row[isbn],
			Title:  row[title],
			Author: row[author],
		}
		if b.ISBN == "" || b.Title == "" || seen[b.ISBN] {
			skipped++
			continue
		}
		seen[b.ISBN] = true
		if year >= 0 {
			b.Year, _ = strconv.Atoi(row[year])
		}
		if publisher >= 0 {
			b.Publisher = row[publisher]
		}
		b.TitleNorm = Norm(b.Title)
		b.AuthorNorm = Norm(b.Author)
		books = append(books, b)
	}
	return books, skipped, nil
}

// readRatings parses BX-Book-Ratings.csv. Rows with non-numeric user IDs
// or scores are skipped.
func readRatings(path string) ([]models.Rating, int, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, 0, err
	}

	user := t.col("User-ID")
	isbn := t.col("ISBN")
	score := t.col("Book-Rating")
	if user < 0 || isbn < 0 || score < 0 {
		return nil, 0, fmt.Errorf("dataset: %s: missing User-ID/ISBN/Book-Rating columns", path)
	}

	skipped := t.skipped
	ratings := make([]models.Rating, 0, len(t.rows))
	for _, row := range t.rows {
		uid, err := strconv.Atoi(row[user])
		if err != nil {
			skipped++
			continue
		}
		sc, err := strconv.Atoi(row[score])
		if err != nil || row[isbn] == "" {
			skipped++
			continue
		}
		ratings = append(ratings, models.Rating{UserID: uid, ISBN: row[isbn], Score: sc})
	}
	return ratings, skipped, nil
}
