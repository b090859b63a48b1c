package controllers

import (
	"university-library/internals/middleware"
	"university-library/internals/service"
	logger "university-library/loggers"

	"github.com/gin-gonic/gin"
)

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	auth   *service.AuthService
	tokens *middleware.TokenManager
}

func NewAuthController(auth *service.AuthService, tokens *middleware.TokenManager) *AuthController {
	return &AuthController{auth: auth, tokens: tokens}
}

// SignUp creates the account and immediately establishes a session, so a
// fresh user lands signed in.
func (ctl *AuthController) SignUp(c *gin.Context) {
	var input service.SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := ctl.auth.SignUp(c.Request.Context(), c.ClientIP(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := ctl.tokens.IssueSession(c, user.Email); err != nil {
		logger.Logger.Error("sign-in after sign-up failed: ", err)
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}

func (ctl *AuthController) SignIn(c *gin.Context) {
	var credential SignInRequest
	if err := c.ShouldBindJSON(&credential); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := ctl.auth.SignIn(c.Request.Context(), c.ClientIP(), credential.Email, credential.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := ctl.tokens.IssueSession(c, user.Email); err != nil {
		logger.Logger.Error("failed to create session: ", err)
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}
