package category

import (
	"net/http"

	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func CategoryController(router *gin.Engine, deps *services.Deps) {
	routes := router.Group("/category", middleware.AccessTokenMiddleware(deps))
	{
		routes.POST("/create", func(c *gin.Context) {
			CreateCategory(c, deps)
		})
		list := func(c *gin.Context) {
			GetCategories(c, deps)
		}
		routes.GET("/getAll", list)
		routes.GET("/all", list)
		routes.GET("/getSingle/:id", func(c *gin.Context) {
			GetCategoryByID(c, deps)
		})
		routes.PATCH("/edit/:id", func(c *gin.Context) {
			EditCategory(c, deps)
		})
		routes.DELETE("/delete/:id", func(c *gin.Context) {
			DeleteCategory(c, deps)
		})
	}
}

func CreateCategory(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	category, err := deps.Categories.Create(ctx, user.UserID, req.Name, req.Emoji)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Category created successfully", dto.NewCategoryResponse(category))
}

func GetCategories(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	categories, err := deps.Categories.List(ctx, user.UserID)
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	if len(categories) == 0 {
		response.Success(c, http.StatusOK, "No categories found", []dto.CategoryResponse{})
		return
	}
	response.Success(c, http.StatusOK, "Categories fetched successfully", dto.NewCategoryList(categories))
}

func GetCategoryByID(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	category, err := deps.Categories.Get(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Category fetched successfully", dto.NewCategoryResponse(category))
}

func EditCategory(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.EditCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, deps.Log, dto.BindError("Invalid Format", err))
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	category, err := deps.Categories.Update(ctx, user.UserID, c.Param("id"), services.CategoryPatch{
		Name:  req.Name,
		Emoji: req.Emoji,
	})
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Category updated successfully", dto.NewCategoryResponse(category))
}

func DeleteCategory(c *gin.Context, deps *services.Deps) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()

	category, err := deps.Categories.Delete(ctx, user.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, deps.Log, err)
		return
	}

	response.Success(c, http.StatusOK, "Category deleted successfully", dto.NewCategoryResponse(category))
}
