package router

import "github.com/gin-gonic/gin"

// Module is one feature's set of routes. Register receives the /api group
// and applies its own auth and rate limits per route.
type Module interface {
	Register(rg *gin.RouterGroup)
}
