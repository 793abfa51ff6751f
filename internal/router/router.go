package router

import (
	"net/http"

	"github.com/gin-gonic/gin/binding"
	"github.com/wb-go/wbf/ginext"
)

type Handler interface {
	CreateEvent(c *ginext.Context)
	ListEvents(c *ginext.Context)
	GetEvent(c *ginext.Context)
	Register(c *ginext.Context)
	CancelEvent(c *ginext.Context)
	EventStats(c *ginext.Context)
}

func InitRouter(mode string, h Handler, mw ...ginext.HandlerFunc) *ginext.Engine {
	// Bodies with unknown fields are rejected with 400.
	binding.EnableDecoderDisallowUnknownFields = true

	router := ginext.New(mode)
	router.Use(mw...)

	events := router.Group("/api/events")
	{
		events.POST("", h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/stats", h.EventStats)

		events.POST("/:id/register", h.Register)
		events.POST("/:id/cancel", h.CancelEvent)
	}

	router.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	return router
}
