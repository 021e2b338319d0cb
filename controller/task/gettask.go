package task

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func GetAllTasks(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var query dto.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, deps.Log, dto.QueryError("Invalid Format", err))
		return
	}
	input, err := query.Input()
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	views, err := deps.Tasks.List(ctx, user.UserID, input)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	if len(views) == 0 {
		response.Success(c, http.StatusOK, "No tasks found", []dto.TaskResponse{})
		return
	}
	response.Success(c, http.StatusOK, "Tasks fetched successfully", dto.NewTaskList(views))
}

func GetTaskByID(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.Get(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Task fetched successfully", dto.NewTaskResponse(view))
}
