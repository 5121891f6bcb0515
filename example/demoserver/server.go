package main

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contentkit/searchfilter-go/searchfilter/postgresengine"
	"github.com/contentkit/searchfilter-go/shortcode"
)

const searchPath = "/search"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Demo Search</title>
	<link rel="stylesheet" href="{{.StylesheetPath}}">
</head>
<body>
	<h1>Demo Search</h1>
	{{.Shortcode}}
</body>
</html>
`))

type pageData struct {
	StylesheetPath string
	Shortcode      template.HTML
}

// Server is the demo HTTP server: a page shell around the shortcode output.
type Server struct {
	router *gin.Engine
}

// NewServer wires the content query engine and the shortcode into a gin router.
func NewServer(cfg Config, pool *pgxpool.Pool, logger *slog.Logger) (*Server, error) {
	engineOptions := []postgresengine.Option{
		postgresengine.WithLogger(logger),
	}
	if cfg.Search.PerPage > 0 {
		engineOptions = append(engineOptions, postgresengine.WithPerPage(cfg.Search.PerPage))
	}
	if len(cfg.Search.MetaKeys) > 0 {
		engineOptions = append(engineOptions, postgresengine.WithSearchMetaKeys(cfg.Search.MetaKeys...))
	}

	engine, err := postgresengine.NewContentQueryFromPGXPool(pool, engineOptions...)
	if err != nil {
		return nil, err
	}

	attrs := shortcode.ParseAttrs(map[string]string{
		"fields":           joinList(cfg.Search.Fields),
		"post_types":       joinList(cfg.Search.PostTypes),
		"search_meta_keys": joinList(cfg.Search.MetaKeys),
	})

	sc := shortcode.New(
		engine,
		attrs,
		shortcode.WithFormAction(searchPath),
		shortcode.WithLogger(logger),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET(shortcode.StylesheetPath, gin.WrapH(shortcode.StylesheetHandler()))

	router.GET(searchPath, func(c *gin.Context) {
		markup, renderErr := sc.Render(c.Request.Context(), c.Request.URL.Query())
		if renderErr != nil {
			logger.Error("rendering search page failed", "error", renderErr)
			c.String(http.StatusInternalServerError, "internal error")

			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)

		data := pageData{StylesheetPath: shortcode.StylesheetPath, Shortcode: markup}
		if execErr := pageTemplate.Execute(c.Writer, data); execErr != nil {
			logger.Error("writing search page failed", "error", execErr)
		}
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, searchPath)
	})

	return &Server{router: router}, nil
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}
