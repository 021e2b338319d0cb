package priority

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func PriorityController(router *gin.Engine, deps *services.Deps) {
	routes := router.Group("/priority", middleware.AccessTokenMiddleware(deps))
	{
		routes.POST("/create", func(c *gin.Context) {
			CreatePriority(c, deps)
		})
		list := func(c *gin.Context) {
			GetPriorities(c, deps)
		}
		routes.GET("/getAll", list)
		routes.GET("/all", list)
		routes.GET("/getSingle/:id", func(c *gin.Context) {
			GetPriorityByID(c, deps)
		})
		routes.PATCH("/edit/:id", func(c *gin.Context) {
			EditPriority(c, deps)
		})
		routes.DELETE("/delete/:id", func(c *gin.Context) {
			DeletePriority(c, deps)
		})
	}
}

func CreatePriority(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.CreatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	priority, err := deps.Priorities.Create(ctx, user.UserID, req.Name, req.Color)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Priority created successfully", dto.NewPriorityResponse(priority))
}

func GetPriorities(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	priorities, err := deps.Priorities.List(ctx, user.UserID)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	if len(priorities) == 0 {
		response.Success(c, http.StatusOK, "No priorities found", []dto.PriorityResponse{})
		return
	}
	response.Success(c, http.StatusOK, "Priorities fetched successfully", dto.NewPriorityList(priorities))
}

func GetPriorityByID(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	priority, err := deps.Priorities.Get(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Priority fetched successfully", dto.NewPriorityResponse(priority))
}

func EditPriority(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.EditPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	priority, err := deps.Priorities.Update(ctx, user.UserID, c.Param("id"), services.PriorityPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Priority updated successfully", dto.NewPriorityResponse(priority))
}

func DeletePriority(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	priority, err := deps.Priorities.Delete(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Priority deleted successfully", dto.NewPriorityResponse(priority))
}
