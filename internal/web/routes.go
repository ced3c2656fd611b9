package web

import (
	"errors"
	"io/fs"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shelfrec/shelfrec/internal/recommend"
)

// resultRow is one recommendation formatted for display.
type resultRow struct {
	Title       string
	Rating      string
	Correlation string
}

// registerRoutes sets up all routes on the Gin router.
func registerRoutes(router *gin.Engine, opts *Opts) {
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	// Recommendation computations are CPU-bound; a semaphore caps how many
	// run at once.
	slots := make(chan struct{}, opts.Workers)

	router.GET(opts.MainURL, handleBookSelection())
	router.POST("/recommendations", handleRecommendations(opts, slots))
	router.GET("/healthz", handleHealth())
}

func handleBookSelection() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "book_selection.html", gin.H{})
	}
}

func handleRecommendations(opts *Opts, slots chan struct{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookTitle := c.PostForm("book_title")
		bookAuthor := c.PostForm("book_author")
		if bookTitle == "" {
			c.HTML(http.StatusBadRequest, "book_selection.html", gin.H{
				"Error": "Please enter a book title.",
			})
			return
		}

		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
		case <-c.Request.Context().Done():
			return
		}

		recs, err := recommend.Recommend(c.Request.Context(), opts.DB, bookTitle, bookAuthor, recommend.Options{
			MinRatings: opts.MinRatings,
			TopN:       opts.TopN,
		})
		if errors.Is(err, recommend.ErrBookNotFound) {
			c.HTML(http.StatusOK, "book_not_found.html", gin.H{
				"BookTitle": bookTitle,
			})
			return
		}
		if err != nil {
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{})
			return
		}
		if len(recs) == 0 {
			c.HTML(http.StatusOK, "no_recommendations.html", gin.H{
				"BookTitle": bookTitle,
			})
			return
		}

		rows := make([]resultRow, len(recs))
		for i, r := range recs {
			rows[i] = resultRow{
				Title:       r.Title,
				Rating:      strconv.FormatFloat(r.AvgRating, 'f', 2, 64),
				Correlation: formatCorrelation(r.Correlation),
			}
		}
		c.HTML(http.StatusOK, "recommendations.html", gin.H{
			"BookTitle":       bookTitle,
			"Recommendations": rows,
		})
	}
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// formatCorrelation renders an undefined correlation as a dash.
func formatCorrelation(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
