package auth

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func SignUpController(router *gin.Engine, deps *services.Deps) {
	router.POST("/auth/register", func(c *gin.Context) {
		Signup(c, deps)
	})
}

func Signup(c *gin.Context, deps *services.Deps) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, deps.Log, dto.BindError("Validation error", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	result, err := deps.Users.Register(ctx, services.RegisterInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	deps.Log.Info("user registered", "user_id", result.User.UserID)
	response.Success(c, http.StatusCreated, "User registered successfully", dto.AuthResponse{
		Token: result.Token,
		User:  dto.NewUserResponse(result.User),
	})
}
