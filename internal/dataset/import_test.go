package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfrec/shelfrec/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openImportTestDB opens an in-memory SQLite DB with the dataset tables.
func openImportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Book{}, &models.Rating{}, &models.ImportJob{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// writeFixture writes content to a temp file and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

const booksCSV = `"ISBN";"Book-Title";"Book-Author";"Year-Of-Publication";"Publisher";"Image-URL-S";"Image-URL-M";"Image-URL-L"
"0345339703";"The Fellowship of the Ring";"J.R.R. Tolkien";"1986";"Del Rey";"s";"m";"l"
"0345339711";"The Two Towers";"J.R.R. TOLKIEN";"1986";"Del Rey";"s";"m";"l"
"0441172717";"Dune";"Frank Herbert";"1990";"Ace";"s";"m";"l"
`

const ratingsCSV = `"User-ID";"ISBN";"Book-Rating"
"1";"0345339703";"9"
"1";"0345339711";"8"
"2";"0345339703";"0"
"2";"0441172717";"7"
`

func TestImporter_Run(t *testing.T) {
	db := openImportTestDB(t)
	im := &Importer{
		DB:      db,
		Books:   writeFixture(t, "books.csv", booksCSV),
		Ratings: writeFixture(t, "ratings.csv", ratingsCSV),
	}

	res, err := im.Run(context.Background(), models.SourceManual)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.BooksLoaded != 3 {
		t.Errorf("BooksLoaded = %d, want 3", res.BooksLoaded)
	}
	if res.RatingsLoaded != 4 {
		t.Errorf("RatingsLoaded = %d, want 4", res.RatingsLoaded)
	}
	if res.RowsSkipped != 0 {
		t.Errorf("RowsSkipped = %d, want 0", res.RowsSkipped)
	}

	var book models.Book
	if err := db.First(&book, "isbn = ?", "0345339711").Error; err != nil {
		t.Fatalf("find book: %v", err)
	}
	if book.TitleNorm != "the two towers" {
		t.Errorf("TitleNorm = %q, want %q", book.TitleNorm, "the two towers")
	}
	if book.AuthorNorm != "j.r.r. tolkien" {
		t.Errorf("AuthorNorm = %q, want %q", book.AuthorNorm, "j.r.r. tolkien")
	}
	if book.Year != 1986 {
		t.Errorf("Year = %d, want 1986", book.Year)
	}

	var job models.ImportJob
	if err := db.Order("id DESC").First(&job).Error; err != nil {
		t.Fatalf("find job: %v", err)
	}
	if job.Status != models.ImportDone {
		t.Errorf("job.Status = %q, want done", job.Status)
	}
	if job.Source != models.SourceManual {
		t.Errorf("job.Source = %q, want manual", job.Source)
	}
	if job.StartedAt == nil || job.CompletedAt == nil {
		t.Error("job timestamps not set")
	}
}

func TestImporter_ReplacesPreviousDataset(t *testing.T) {
	db := openImportTestDB(t)
	im := &Importer{
		DB:      db,
		Books:   writeFixture(t, "books.csv", booksCSV),
		Ratings: writeFixture(t, "ratings.csv", ratingsCSV),
	}

	if _, err := im.Run(context.Background(), models.SourceManual); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Second import with a smaller ratings file must replace, not append.
	im.Ratings = writeFixture(t, "ratings2.csv", `"User-ID";"ISBN";"Book-Rating"
"3";"0441172717";"10"
`)
	if _, err := im.Run(context.Background(), models.SourceScheduled); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	if count != 1 {
		t.Errorf("ratings count = %d, want 1", count)
	}
}

func TestImporter_SkipsBadRows(t *testing.T) {
	db := openImportTestDB(t)
	im := &Importer{
		DB: db,
		Books: writeFixture(t, "books.csv", `"ISBN";"Book-Title";"Book-Author"
"1";"Good Book";"author"
"";"No ISBN";"author"
"2";"";"no title"
"1";"Good Book";"duplicate isbn"
short-row
`),
		Ratings: writeFixture(t, "ratings.csv", `"User-ID";"ISBN";"Book-Rating"
"1";"1";"5"
"not-a-number";"1";"5"
"2";"1";"not-a-score"
`),
	}

	res, err := im.Run(context.Background(), models.SourceManual)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.BooksLoaded != 1 {
		t.Errorf("BooksLoaded = %d, want 1", res.BooksLoaded)
	}
	if res.RatingsLoaded != 1 {
		t.Errorf("RatingsLoaded = %d, want 1", res.RatingsLoaded)
	}
	// Three bad book rows, one short row, two bad rating rows.
	if res.RowsSkipped != 6 {
		t.Errorf("RowsSkipped = %d, want 6", res.RowsSkipped)
	}
}

func TestImporter_MissingFile(t *testing.T) {
	db := openImportTestDB(t)
	im := &Importer{
		DB:      db,
		Books:   filepath.Join(t.TempDir(), "missing.csv"),
		Ratings: filepath.Join(t.TempDir(), "missing2.csv"),
	}

	if _, err := im.Run(context.Background(), models.SourceManual); err == nil {
		t.Fatal("expected error for missing file")
	}

	var job models.ImportJob
	if err := db.Order("id DESC").First(&job).Error; err != nil {
		t.Fatalf("find job: %v", err)
	}
	if job.Status != models.ImportError {
		t.Errorf("job.Status = %q, want error", job.Status)
	}
	if job.ErrorMessage == "" {
		t.Error("job.ErrorMessage empty")
	}
}

func TestImporter_MissingColumns(t *testing.T) {
	db := openImportTestDB(t)
	im := &Importer{
		DB:      db,
		Books:   writeFixture(t, "books.csv", "wrong;header;names\n1;2;3\n"),
		Ratings: writeFixture(t, "ratings.csv", ratingsCSV),
	}

	if _, err := im.Run(context.Background(), models.SourceManual); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestImporter_Latin1BooksFile(t *testing.T) {
	db := openImportTestDB(t)

	// "Émile" with a raw Latin-1 0xC9 'É'.
	latin1 := []byte("\"ISBN\";\"Book-Title\";\"Book-Author\"\n\"9\";\"Germinal\";\"")
	latin1 = append(latin1, 0xC9)
	latin1 = append(latin1, []byte("mile Zola\"\n")...)

	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, latin1, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	im := &Importer{
		DB:      db,
		Books:   path,
		Ratings: writeFixture(t, "ratings.csv", ratingsCSV),
	}
	if _, err := im.Run(context.Background(), models.SourceManual); err != nil {
		t.Fatalf("run: %v", err)
	}

	var book models.Book
	if err := db.First(&book, "isbn = ?", "9").Error; err != nil {
		t.Fatalf("find book: %v", err)
	}
	if book.Author != "Émile Zola" {
		t.Errorf("Author = %q, want %q", book.Author, "Émile Zola")
	}
	if book.AuthorNorm != "émile zola" {
		t.Errorf("AuthorNorm = %q, want %q", book.AuthorNorm, "émile zola")
	}
}

func TestImporter_NilDB(t *testing.T) {
	im := &Importer{}
	if _, err := im.Run(context.Background(), models.SourceManual); err == nil {
		t.Fatal("expected error for nil db")
	}
}
