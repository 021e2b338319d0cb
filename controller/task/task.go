package task

import (
	"taskmanager/middleware"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

func TaskController(router *gin.Engine, deps *services.Deps) {
	routes := router.Group("/task", middleware.AccessTokenMiddleware(deps))
	{
		routes.POST("/create", func(c *gin.Context) {
			Createtask(c, deps)
		})
		routes.GET("/all", func(c *gin.Context) {
			GetAllTasks(c, deps)
		})
		routes.GET("/getSingle/:id", func(c *gin.Context) {
			GetTaskByID(c, deps)
		})
		routes.PATCH("/edit/:id", func(c *gin.Context) {
			EditTaskByID(c, deps)
		})
		routes.DELETE("/delete/:id", func(c *gin.Context) {
			DeleteTaskByID(c, deps)
		})
		routes.POST("/addCategory", func(c *gin.Context) {
			AddTaskCategory(c, deps)
		})
		routes.DELETE("/deleteCategory", func(c *gin.Context) {
			RemoveTaskCategory(c, deps)
		})
	}
}
