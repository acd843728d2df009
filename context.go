package inkwell

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AuthContext carries the identity the auth middleware extracted from the
// bearer token. The platform never looks at credentials itself.
type AuthContext struct {
	UserID string
	Role   string
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Context struct {
	*gin.Context
	fileService FileService
}

func NewContext(c *gin.Context, fileService FileService) *Context {
	return &Context{
		Context:     c,
		fileService: fileService,
	}
}

func (c *Context) GetFileService() FileService {
	return c.fileService
}

// GetAuthContext returns the current auth context. Handlers behind the auth
// middleware can rely on it being present.
func (c *Context) GetAuthContext() (AuthContext, error) {
	userId, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return AuthContext{}, errors.New("operation not permitted")
	}
	role, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return AuthContext{}, errors.New("operation not permitted")
	}
	return AuthContext{
		UserID: userId.(string),
		Role:   role.(string),
	}, nil
}

func (c *Context) GetRequest(request interface{}) error {
	if err := c.ShouldBindJSON(request); err != nil {
		return ErrInvalidInput.New("bad request: " + err.Error())
	}
	return nil
}

// DefaultQueryInt reads an integer query parameter, falling back to def when
// the parameter is absent or not a number.
func (c *Context) DefaultQueryInt(key string, def int) int {
	value := c.Query(key)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func (c *Context) SendError(err error) {
	SendError(c.Context, err)
}
