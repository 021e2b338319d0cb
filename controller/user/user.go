package user

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, deps *services.Deps) {
	routes := router.Group("/user", middleware.AccessTokenMiddleware(deps))
	{
		routes.GET("/me", func(c *gin.Context) {
			GetProfile(c, deps)
		})
		routes.PATCH("/update", func(c *gin.Context) {
			UpdateProfileUser(c, deps)
		})
		routes.DELETE("/delete", func(c *gin.Context) {
			DeleteUser(c, deps)
		})
	}
}

func GetProfile(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "User fetched successfully", gin.H{
		"user": dto.NewUserResponse(user),
	})
}

func UpdateProfileUser(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var updateProfile dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&updateProfile); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	updated, err := deps.Users.Update(ctx, user, services.UpdateUserInput{
		Username: updateProfile.Username,
		Email:    updateProfile.Email,
		Password: updateProfile.Password,
	})
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully", gin.H{
		"user": dto.NewUserResponse(updated),
	})
}

// DeleteUser removes the caller's tasks, categories and priorities and then
// the account itself.
func DeleteUser(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	if err := deps.Users.Delete(ctx, user); err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	deps.Log.Info("user deleted", "user_id", user.UserID)
	response.Success(c, http.StatusOK, "User account deleted successfully", nil)
}
