// Package dependency wires core edutools services using go.uber.org/dig.
package dependency

import (
	"go.uber.org/dig"

	"github.com/edutools/edutools/internal/apiclient"
	"github.com/edutools/edutools/internal/config"
	"github.com/edutools/edutools/internal/mcpserver"
	"github.com/edutools/edutools/internal/services"
	"github.com/edutools/edutools/internal/toolkit"
)

// ServiceContainer holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type ServiceContainer struct {
	cfg      *config.Config
	registry *toolkit.Registry
	invoker  *toolkit.Invoker
	server   *mcpserver.Server
	resolver *Resolver
}

func (c *ServiceContainer) Config() *config.Config       { return c.cfg }
func (c *ServiceContainer) Registry() *toolkit.Registry  { return c.registry }
func (c *ServiceContainer) Invoker() *toolkit.Invoker    { return c.invoker }
func (c *ServiceContainer) MCPServer() *mcpserver.Server { return c.server }
func (c *ServiceContainer) Resolver() *Resolver          { return c.resolver }

// Option customises the container before it is resolved.
type Option func(*dig.Container) error

// WithAPIClient replaces the HTTP resource API client, typically with a fake.
func WithAPIClient(client apiclient.Client) Option {
	return func(d *dig.Container) error {
		return d.Decorate(func(apiclient.Client) apiclient.Client { return client })
	}
}

// New builds and wires all core services from cfg.
func New(cfg *config.Config, opts ...Option) (*ServiceContainer, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newAPIClient); err != nil {
		return nil, err
	}
	if err := d.Provide(services.NewCourseTools); err != nil {
		return nil, err
	}
	if err := d.Provide(services.NewUserTools); err != nil {
		return nil, err
	}
	if err := d.Provide(services.NewQuizTools); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *Resolver { return NewResolver(d) }); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newInvoker); err != nil {
		return nil, err
	}
	if err := d.Provide(mcpserver.New); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	var result *ServiceContainer
	err := d.Invoke(func(
		registry *toolkit.Registry,
		invoker *toolkit.Invoker,
		server *mcpserver.Server,
		resolver *Resolver,
	) {
		result = &ServiceContainer{
			cfg:      cfg,
			registry: registry,
			invoker:  invoker,
			server:   server,
			resolver: resolver,
		}
	})
	return result, err
}

func newAPIClient(cfg *config.Config) apiclient.Client {
	return apiclient.New(cfg.API)
}

func newRegistry() *toolkit.Registry {
	return toolkit.NewRegistry(services.Catalog())
}

func newInvoker(cfg *config.Config, reg *toolkit.Registry, resolver *Resolver) *toolkit.Invoker {
	policy := toolkit.MissingStrict
	if cfg.Tools.LenientBinding {
		policy = toolkit.MissingLenient
	}
	return toolkit.NewInvoker(reg, resolver, toolkit.WithMissingPolicy(policy))
}
