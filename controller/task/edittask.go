package task

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func EditTaskByID(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var editReq dto.EditTaskRequest
	if err := c.ShouldBindJSON(&editReq); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}
	patch, err := editReq.Patch()
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.Update(ctx, user.UserID, c.Param("id"), patch)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Task updated successfully", dto.NewTaskResponse(view))
}

func AddTaskCategory(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.TaskCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.AddCategory(ctx, user.UserID, req.TaskID, req.CategoryID)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Category added to task", dto.NewTaskResponse(view))
}

func RemoveTaskCategory(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.TaskCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	view, err := deps.Tasks.RemoveCategory(ctx, user.UserID, req.TaskID, req.CategoryID)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Category removed from task", dto.NewTaskResponse(view))
}
