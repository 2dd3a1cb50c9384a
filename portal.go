// Package portal implements the Gyaan Apps portal: a small web application
// that manages user accounts and forwards authenticated users to the
// sub-applications with a deterministic access token in the URL.
package portal

import (
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	log "github.com/sirupsen/logrus"

	"github.com/gyaan-apps/portal/api"
	"github.com/gyaan-apps/portal/api/adminapi"
	"github.com/gyaan-apps/portal/sso"
	"github.com/gyaan-apps/portal/storage/model"
)

const contentCachePeriod = 5 * time.Second

//go:embed templates
var templateFS embed.FS

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

func handleError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code == fiber.StatusNotFound {
		return ctx.Status(code).JSON(api.ErrorNotFound(err.Error()))
	}
	return ctx.Status(code).JSON(api.ErrorServerError(err.Error()))
}

// Portal is the web application serving the portal pages, the password reset
// flow and the admin API.
type Portal struct {
	server     *fiber.App
	serverConf ServerConf
	authority  *sso.Authority
	storages   model.Backends
	apps       []AppConf
}

// NewPortal creates a new Portal serving the passed sub-applications
func NewPortal(
	serverConf ServerConf,
	authority *sso.Authority,
	storages model.Backends,
	apps []AppConf,
) (*Portal, error) {
	engine := html.NewFileSystem(http.FS(templateFS), ".html")
	FiberServerConfig.Views = engine
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		FiberServerConfig.TrustedProxies = tps
		FiberServerConfig.EnableTrustedProxyCheck = true
	}
	FiberServerConfig.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(FiberServerConfig)
	server.Use(recover.New())
	server.Use(compress.New())
	server.Use(logger.New())
	server.Use(requestid.New())
	p := &Portal{
		server:     server,
		serverConf: serverConf,
		authority:  authority,
		storages:   storages,
		apps:       apps,
	}
	p.registerPages()
	adminapi.Register(server.Group("/api/v1/admin"), storages, serverConf.PortalURL)
	return p, nil
}

// HttpHandlerFunc returns an http.HandlerFunc serving all portal endpoints
func (p *Portal) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(p.server)
}

// Listen starts an http server at the specific address
func (p *Portal) Listen(addr string) error {
	return p.server.Listen(addr)
}

// Start starts the portal server according to its ServerConf
func (p *Portal) Start() {
	conf := p.serverConf
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(p.server.Listen(fmt.Sprintf("%s:%d", conf.IPListen, conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(":80")).Fatal()
		}()
	}
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(p.server.ListenTLS(":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
