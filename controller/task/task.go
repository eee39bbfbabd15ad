package task

import (
	"errors"
	"net/http"
	"strings"

	"tasklist/dto"
	"tasklist/services"

	"github.com/gin-gonic/gin"
)

func TaskController(router *gin.Engine, svc *services.TaskService, guards ...gin.HandlerFunc) {
	routes := router.Group("/tasks", guards...)
	{
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, svc)
		})
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, svc)
		})
		routes.GET("/sorted", func(c *gin.Context) {
			ListTasksSorted(c, svc)
		})
		routes.GET("/labels/:labels", func(c *gin.Context) {
			ListTasksByLabels(c, svc)
		})
		routes.GET("/id/:id", func(c *gin.Context) {
			GetTask(c, svc)
		})
		routes.PUT("/id/:id", func(c *gin.Context) {
			UpdateTask(c, svc)
		})
		routes.DELETE("/id/:id", func(c *gin.Context) {
			DeleteTask(c, svc)
		})
		routes.DELETE("/labels/:label", func(c *gin.Context) {
			DeleteTasksByLabel(c, svc)
		})
		routes.DELETE("", func(c *gin.Context) {
			DeleteAllTasks(c, svc)
		})
	}
}

func CreateTask(c *gin.Context, svc *services.TaskService) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid JSON: " + err.Error()})
		return
	}

	task, err := svc.CreateTask(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func ListTasks(c *gin.Context, svc *services.TaskService) {
	tasks, err := svc.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func ListTasksSorted(c *gin.Context, svc *services.TaskService) {
	tasks, err := svc.ListTasksSorted(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// ListTasksByLabels accepts a comma separated label list, e.g. /tasks/labels/home,work.
func ListTasksByLabels(c *gin.Context, svc *services.TaskService) {
	var labels []string
	for _, l := range strings.Split(c.Param("labels"), ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}

	tasks, err := svc.ListTasksByLabels(c.Request.Context(), labels)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetTask(c *gin.Context, svc *services.TaskService) {
	task, err := svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, svc *services.TaskService) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid JSON: " + err.Error()})
		return
	}

	task, err := svc.UpdateTask(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, svc *services.TaskService) {
	task, err := svc.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTasksByLabel(c *gin.Context, svc *services.TaskService) {
	tasks, err := svc.DeleteTasksByLabel(c.Request.Context(), c.Param("label"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func DeleteAllTasks(c *gin.Context, svc *services.TaskService) {
	if err := svc.DeleteAllTasks(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "All tasks deleted!"})
}

func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
