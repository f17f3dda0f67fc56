package contact

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/oarkflow/squealx"
	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/contracts"
	"github.com/oarkflow/contact/pkg/http/handlers"
	"github.com/oarkflow/contact/pkg/http/middlewares"
	"github.com/oarkflow/contact/pkg/http/responses"
	"github.com/oarkflow/contact/pkg/http/routes"
	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/storage"
	"github.com/oarkflow/contact/pkg/utils"
)

//go:embed views
var Assets embed.FS

const sessionExpiration = 24 * time.Hour

type Plugin struct {
	App            *fiber.App
	Prefix         string
	Config         *libs.Config
	DB             *squealx.DB
	Log            *zap.Logger
	Dispatcher     contracts.Dispatcher
	ManagerOptions []libs.Option

	Manager  *libs.Manager
	Renderer *responses.Renderer
	Sessions *session.Store
}

type Option func(*Plugin)

func WithPrefix(prefix string) Option {
	return func(p *Plugin) { p.Prefix = prefix }
}

func WithApp(app *fiber.App) Option {
	return func(p *Plugin) { p.App = app }
}

func WithConfig(cfg *libs.Config) Option {
	return func(p *Plugin) { p.Config = cfg }
}

// WithDB keeps the security log and, when enabled, submissions in db.
// Without it both live in memory.
func WithDB(db *squealx.DB) Option {
	return func(p *Plugin) { p.DB = db }
}

func WithLog(log *zap.Logger) Option {
	return func(p *Plugin) { p.Log = log }
}

// WithDispatcher replaces the default submission dispatcher.
func WithDispatcher(d contracts.Dispatcher) Option {
	return func(p *Plugin) { p.Dispatcher = d }
}

// WithManagerOptions passes options through to libs.NewManager.
func WithManagerOptions(opts ...libs.Option) Option {
	return func(p *Plugin) { p.ManagerOptions = append(p.ManagerOptions, opts...) }
}

func NewPluginWithOptions(opts ...Option) *Plugin {
	p := &Plugin{Prefix: "/"}
	for _, opt := range opts {
		opt(p)
	}
	if p.Config == nil {
		p.Config = libs.DefaultConfig()
	}
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	p.Renderer = &responses.Renderer{Views: NewViewEngine(), Layout: utils.LayoutTemplate}
	return p
}

// NewViewEngine returns the template engine over the embedded views.
func NewViewEngine() *html.Engine {
	views, err := fs.Sub(Assets, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(views), ".html")
	engine.AddFuncMap(map[string]any{
		"uris": func() map[string]string {
			return utils.GetURIs()
		},
	})
	return engine
}

// Register builds the manager, installs the middleware chain and mounts the
// routes. It creates the fiber app when none was given.
func (p *Plugin) Register() error {
	cfg := p.Config
	local, dispatcher, err := p.backends()
	if err != nil {
		return err
	}
	opts := []libs.Option{libs.WithLog(p.Log)}
	if dispatcher != nil {
		opts = append(opts, libs.WithDispatcher(dispatcher))
	}
	opts = append(opts, p.ManagerOptions...)
	p.Manager = libs.NewManager(local, cfg, opts...)

	p.Sessions = session.New(session.Config{
		KeyLookup:      "cookie:" + utils.DefaultSessionName,
		Expiration:     sessionExpiration,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.HTTPS,
		CookieSameSite: "Lax",
	})

	if p.App == nil {
		p.App = fiber.New(fiber.Config{
			AppName:      cfg.AppName,
			ErrorHandler: handlers.ErrorHandler(p.Renderer, cfg, p.Log),
		})
	}
	p.App.Use(recover.New())
	if cfg.SecurityHeaders {
		p.App.Use(middlewares.SecurityHeaders(cfg.HTTPS))
	}
	p.App.Use(middlewares.RequestValidation(p.Manager))

	routes.Setup(p.Prefix, p.App, p.Manager, p.Renderer, p.Sessions)
	if cfg.ExposeLogs {
		routes.SecurityRoutes(p.Prefix, p.App, p.Manager)
	}
	return nil
}

func (p *Plugin) backends() (contracts.Storage, contracts.Dispatcher, error) {
	dispatcher := p.Dispatcher
	if p.DB == nil {
		return storage.NewMemory(), dispatcher, nil
	}
	db, err := storage.NewDatabaseStorage(p.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize storage: %w", err)
	}
	if dispatcher == nil && p.Config.StoreSubmissions {
		dispatcher = libs.DatabaseDispatcher{Store: db, Next: libs.LogDispatcher{Log: p.Log}}
	}
	return db.Scope(storage.ScopeLocal), dispatcher, nil
}

func (p *Plugin) Name() string {
	return "Contact"
}

func (p *Plugin) DependsOn() []string {
	return []string{"Database"}
}

func (p *Plugin) Close() error {
	return nil
}
