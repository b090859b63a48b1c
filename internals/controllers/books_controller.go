package controllers

import (
	"errors"

	"university-library/internals/models"
	"university-library/internals/repository"
	"university-library/internals/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Genre           string `json:"genre" binding:"required"`
	Rating          int    `json:"rating" binding:"min=0,max=5"`
	CoverURL        string `json:"cover_url"`
	CoverColor      string `json:"cover_color"`
	Description     string `json:"description"`
	TotalCopies     int    `json:"total_copies" binding:"required,min=1"`
	AvailableCopies *int   `json:"available_copies"`
	VideoURL        string `json:"video_url"`
	Summary         string `json:"summary"`
}

type BooksController struct {
	books repository.BookRepository
}

func NewBooksController(books repository.BookRepository) *BooksController {
	return &BooksController{books: books}
}

func (ctl *BooksController) GetAll(c *gin.Context) {
	books, err := ctl.books.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"books": books})
}

func (ctl *BooksController) GetByID(c *gin.Context) {
	book, err := ctl.books.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"book": book})
}

// Create adds a catalog entry. A new title starts fully available unless the
// request says otherwise.
func (ctl *BooksController) Create(c *gin.Context) {
	var input BookRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	available := input.TotalCopies
	if input.AvailableCopies != nil {
		available = *input.AvailableCopies
	}
	if available < 0 || available > input.TotalCopies {
		respondBadRequest(c, errors.New("available_copies must be between 0 and total_copies"))
		return
	}

	book := models.Book{
		Title:           input.Title,
		Author:          input.Author,
		Genre:           input.Genre,
		Rating:          input.Rating,
		CoverURL:        input.CoverURL,
		CoverColor:      input.CoverColor,
		Description:     input.Description,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: available,
		VideoURL:        input.VideoURL,
		Summary:         input.Summary,
	}
	if err := ctl.books.Create(c.Request.Context(), &book); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"book": book})
}

func (ctl *BooksController) Update(c *gin.Context) {
	var input BookRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	book, err := ctl.books.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Genre = input.Genre
	book.Rating = input.Rating
	book.CoverURL = input.CoverURL
	book.CoverColor = input.CoverColor
	book.Description = input.Description
	book.VideoURL = input.VideoURL
	book.Summary = input.Summary
	// keep the number of loaned copies stable when total changes
	loaned := book.TotalCopies - book.AvailableCopies
	book.TotalCopies = input.TotalCopies
	book.AvailableCopies = input.TotalCopies - loaned
	if book.AvailableCopies < 0 {
		book.AvailableCopies = 0
	}

	if err := ctl.books.Update(c.Request.Context(), book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"book": book})
}

func (ctl *BooksController) Delete(c *gin.Context) {
	if err := ctl.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
