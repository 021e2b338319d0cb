package task

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func Createtask(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}
	input, err := taskReq.Input()
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.Create(ctx, user.UserID, input)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Task created successfully", dto.NewTaskResponse(view))
}
