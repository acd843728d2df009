package inkwell

import "github.com/gin-gonic/gin"

// HandlerFunc is the platform handler signature. The wrapper gives every
// handler a Context with the bound file service.
type HandlerFunc func(*Context)

// Controller binds its routes onto a ControllerGroup.
type Controller interface {
	Register(group *ControllerGroup)
}

type ControllerGroup struct {
	group       *gin.RouterGroup
	fileService FileService
}

func (g *ControllerGroup) wrap(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(NewContext(c, g.fileService))
	}
}

// Group returns a sub-group, typically used to hang middleware on a subset
// of a controller's routes.
func (g *ControllerGroup) Group(path string, middleware ...gin.HandlerFunc) *ControllerGroup {
	sub := g.group.Group(path)
	if len(middleware) > 0 {
		sub.Use(middleware...)
	}
	return &ControllerGroup{group: sub, fileService: g.fileService}
}

func (g *ControllerGroup) Use(middleware ...gin.HandlerFunc) {
	g.group.Use(middleware...)
}

func (g *ControllerGroup) GET(path string, handler HandlerFunc) {
	g.group.GET(path, g.wrap(handler))
}

func (g *ControllerGroup) POST(path string, handler HandlerFunc) {
	g.group.POST(path, g.wrap(handler))
}

func (g *ControllerGroup) PUT(path string, handler HandlerFunc) {
	g.group.PUT(path, g.wrap(handler))
}

func (g *ControllerGroup) DELETE(path string, handler HandlerFunc) {
	g.group.DELETE(path, g.wrap(handler))
}

func (g *ControllerGroup) PATCH(path string, handler HandlerFunc) {
	g.group.PATCH(path, g.wrap(handler))
}
