// Package ginapi mounts a toolkit.Registry as HTTP routes on a gin router.
//
//	GET  /tools        list tool definitions
//	POST /tools/:name  call a tool with a JSON argument object
package ginapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petasbytes/go-toolgen/toolkit"
)

type handler struct {
	reg *toolkit.Registry
}

// Mount registers the tool routes on r.
func Mount(r gin.IRouter, reg *toolkit.Registry) {
	h := &handler{reg: reg}
	r.GET("/tools", h.list)
	r.POST("/tools/:name", h.call)
}

func (h *handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.reg.Definitions(c.Request.Context(), c.Query("prompt"))})
}

func (h *handler) call(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.reg.Call(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": json.RawMessage(out)})
}

func status(err error) int {
	var (
		argErr  *toolkit.ArgumentsError
		failure toolkit.Failure
	)
	switch {
	case errors.Is(err, toolkit.ErrToolNotFound):
		return http.StatusNotFound
	case errors.As(err, &argErr):
		return http.StatusBadRequest
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
