package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Handler *Handler

	engine    *gin.Engine
	staticDir string
}

func NewController(handler *Handler, staticDir string) *Controller {
	router := gin.Default()

	c := &Controller{Handler: handler, engine: router, staticDir: staticDir}

	router.POST("/location", handler.PostLocation)
	router.GET("/locations/recent", handler.GetRecentLocations)

	api := router.Group("/api")
	{
		api.GET("/vehicles", handler.GetVehicles)
		api.GET("/vehicles/:device_id", handler.GetVehicle)
		api.GET("/routes", handler.GetRoutes)
		api.GET("/stops", handler.GetStops)
		api.GET("/stream", handler.StreamLocations)
		api.GET("/locations/all", handler.GetAllLocations)
		api.GET("/locations/latest", handler.GetLatestLocation)
	}

	// Everything else falls through to the map UI assets.
	router.NoRoute(c.serveStatic)

	return c
}

// Engine exposes the router, mainly for tests.
func (c *Controller) Engine() *gin.Engine {
	return c.engine
}

func (c *Controller) Run(addr string) error {
	return c.engine.Run(addr)
}

func (c *Controller) serveStatic(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet || c.staticDir == "" {
		ctx.JSON(http.StatusNotFound, gin.H{})
		return
	}

	relative := filepath.Clean(ctx.Request.URL.Path)
	if relative == "/" || relative == "." {
		relative = "index.html"
	}

	path := filepath.Join(c.staticDir, relative)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		ctx.File(path)
		return
	}

	ctx.JSON(http.StatusNotFound, gin.H{})
}
