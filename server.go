package inkwell

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Runtime string

const (
	RuntimeLambda Runtime = "lambda"
	RuntimeHTTP   Runtime = "http"
)

type Server struct {
	engine      *gin.Engine
	runtime     Runtime
	basePath    string
	corsConfig  *cors.Config
	fileService FileService
}

func New() *Server {
	runtime := RuntimeHTTP
	if os.Getenv("LAMBDA_RUNTIME") == "true" {
		runtime = RuntimeLambda
	}

	return &Server{
		engine:  gin.Default(),
		runtime: runtime,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// SetBasePath prefixes every registered controller path, e.g. "/api/v1".
func (s *Server) SetBasePath(path string) {
	s.basePath = path
}

func (s *Server) Use(middleware ...gin.HandlerFunc) {
	s.engine.Use(middleware...)
}

// BindFileService makes the file service available on every handler Context.
func (s *Server) BindFileService(fileService FileService) {
	s.fileService = fileService
}

func (s *Server) RegisterController(path string, controller Controller) {
	group := &ControllerGroup{
		group:       s.engine.Group(s.basePath + path),
		fileService: s.fileService,
	}
	controller.Register(group)
}

func (s *Server) Start(port int) error {
	if s.runtime == RuntimeLambda {
		return s.startLambda()
	}
	return s.startHTTP(port)
}

func (s *Server) startHTTP(port int) error {
	addr := fmt.Sprintf(":%d", port)
	return s.engine.Run(addr)
}

func (s *Server) startLambda() error {
	ginLambda := ginadapter.New(s.engine)

	handler := func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	}

	lambda.Start(handler)
	return nil
}

func (s *Server) WithCORS(config *cors.Config) *Server {
	s.corsConfig = config
	s.engine.Use(cors.New(*config))
	return s
}

func (s *Server) DefaultCORS() *Server {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return s.WithCORS(&config)
}

func (s *Server) CustomCORS(allowOrigins []string, allowMethods []string, allowHeaders []string, maxAge time.Duration) *Server {
	config := cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: allowMethods,
		AllowHeaders: allowHeaders,
		MaxAge:       maxAge,
	}
	return s.WithCORS(&config)
}
