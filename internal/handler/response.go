package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope every endpoint returns.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error hands the error to the error middleware, which picks the status.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
