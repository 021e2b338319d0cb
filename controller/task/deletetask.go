package task

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func DeleteTaskByID(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.Delete(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Task deleted successfully", dto.NewTaskResponse(view))
}
