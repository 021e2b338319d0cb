package auth

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func SignInController(router *gin.Engine, deps *services.Deps) {
	router.POST("/auth/login", func(c *gin.Context) {
		Signin(c, deps)
	})
}

func Signin(c *gin.Context, deps *services.Deps) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, deps.Log, dto.BindError("Validation error", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	// Unknown email and wrong password produce the same 401.
	result, err := deps.Users.Login(ctx, request.Email, request.Password)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", dto.AuthResponse{
		Token: result.Token,
		User:  dto.NewUserResponse(result.User),
	})
}
