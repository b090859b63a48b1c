package controllers

import (
	"errors"
	"net/http"

	"university-library/internals/middleware"
	"university-library/internals/repository"
	"university-library/internals/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BorrowController struct {
	borrow *service.BorrowService
	users  repository.UserRepository
}

func NewBorrowController(borrow *service.BorrowService, users repository.UserRepository) *BorrowController {
	return &BorrowController{borrow: borrow, users: users}
}

func (ctl *BorrowController) currentUserID(c *gin.Context) (string, bool) {
	email := c.GetString(middleware.ContextEmailKey)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return "", false
	}
	user, err := ctl.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrNotFound)
		} else {
			respondError(c, err)
		}
		return "", false
	}
	return user.ID, true
}

func (ctl *BorrowController) Borrow(c *gin.Context) {
	userID, ok := ctl.currentUserID(c)
	if !ok {
		return
	}
	record, err := ctl.borrow.Borrow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"record": record})
}

func (ctl *BorrowController) Return(c *gin.Context) {
	userID, ok := ctl.currentUserID(c)
	if !ok {
		return
	}
	record, err := ctl.borrow.Return(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"record": record})
}

func (ctl *BorrowController) History(c *gin.Context) {
	userID, ok := ctl.currentUserID(c)
	if !ok {
		return
	}
	records, err := ctl.borrow.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"records": records})
}
