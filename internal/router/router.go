package router

import (
	"net/http"
	"os"
	"strings"

	docs "github.com/garage-ledger/backend/api"
	"github.com/garage-ledger/backend/internal/controllers/healthz"
	"github.com/garage-ledger/backend/internal/controllers/root"
	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Router controls the routes for the API.
func Router() (*gin.Engine, error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if err := registerPrometheusMetrics(); err != nil {
		return nil, err
	}

	/*
	 *  Route setup
	 */
	root.RegisterRoutes(r.Group(""))
	healthz.RegisterRoutes(r.Group("/healthz"))

	r.GET("/version", GetVersion)
	r.OPTIONS("/version", OptionsVersion)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.Register(r, "debug/pprof")
	}

	docs.SwaggerInfo.Title = "Garage Ledger"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Garage Ledger, profit and loss accounting for vehicle workshops. Check out the source code at https://github.com/garage-ledger/backend."

	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	v1Group := r.Group("/v1")
	{
		v1Group.GET("", GetV1)
		v1Group.OPTIONS("", OptionsV1)
		v1Group.DELETE("", v1.Cleanup)
	}

	v1.RegisterProjectRoutes(v1Group.Group("/projects"))
	v1.RegisterUserRoutes(v1Group.Group("/users"))
	v1.RegisterTeamRoutes(v1Group.Group("/teams"))
	v1.RegisterTimesheetRoutes(v1Group.Group("/timesheets"))
	v1.RegisterCostItemRoutes(v1Group.Group("/cost-items"))
	v1.RegisterCogsRoutes(v1Group.Group("/cogs"))
	v1.RegisterWorkflowRoutes(v1Group.Group("/workflow"))
	v1.RegisterReportRoutes(v1Group.Group("/reports"))
	v1.RegisterImportRoutes(v1Group.Group("/import"))
	v1.RegisterExportRoutes(v1Group.Group("/export"), version)

	log.Info().Str("version", version).Msg("backend startup complete")

	return r, nil
}

// Teardown removes all global state the router set up.
//
// It is used in tests to allow multiple routers to exist in one process.
func Teardown() bool {
	return unregisterPrometheusMetrics()
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Projects   string `json:"projects" example:"https://example.com/api/v1/projects"`     // URL of the project list endpoint
	Users      string `json:"users" example:"https://example.com/api/v1/users"`           // URL of the user list endpoint
	Teams      string `json:"teams" example:"https://example.com/api/v1/teams"`           // URL of the team list endpoint
	Timesheets string `json:"timesheets" example:"https://example.com/api/v1/timesheets"` // URL of the timesheet list endpoint
	CostItems  string `json:"costItems" example:"https://example.com/api/v1/cost-items"`  // URL of the cost item list endpoint
	Cogs       string `json:"cogs" example:"https://example.com/api/v1/cogs"`             // URL of the COGS entry list endpoint
	Reports    string `json:"reports" example:"https://example.com/api/v1/reports"`       // URL of the report endpoints
	Import     string `json:"import" example:"https://example.com/api/v1/import"`         // URL of the import endpoints
	Export     string `json:"export" example:"https://example.com/api/v1/export"`         // URL of the export endpoint
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			General
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Projects:   url + "/v1/projects",
			Users:      url + "/v1/users",
			Teams:      url + "/v1/teams",
			Timesheets: url + "/v1/timesheets",
			CostItems:  url + "/v1/cost-items",
			Cogs:       url + "/v1/cogs",
			Reports:    url + "/v1/reports",
			Import:     url + "/v1/import",
			Export:     url + "/v1/export",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
