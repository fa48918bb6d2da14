package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/metrics"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
)

type CompositionRoot struct {
	configs    Config
	uowFactory ports.UnitOfWorkFactory
	metrics    *metrics.PrometheusMetrics
	tolerance  kernel.Percent
	reconciler services.LoadingReconciler
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) (CompositionRoot, error) {
	raw := configs.DeviationTolerancePercent
	if raw == "" {
		raw = services.DefaultTolerance
	}
	tolerance, err := kernel.PercentFromString(raw)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid deviation tolerance %q: %w", raw, err)
	}

	reconciler, err := services.NewLoadingReconciler(tolerance)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		configs:    configs,
		uowFactory: uowFactory,
		metrics:    metrics.NewPrometheusMetrics(),
		tolerance:  tolerance,
		reconciler: reconciler,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateItemCommandHandler() commands.CreateItemCommandHandler {
	return commands.NewCreateItemCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateUpdateItemCommandHandler() commands.UpdateItemCommandHandler {
	return commands.NewUpdateItemCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateDeleteItemCommandHandler() commands.DeleteItemCommandHandler {
	return commands.NewDeleteItemCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.fulfillmentUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateTakeChargeCommandHandler() commands.TakeChargeCommandHandler {
	return commands.NewTakeChargeCommandHandler(c.orderUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateReportLoadCommandHandler() commands.ReportLoadCommandHandler {
	return commands.NewReportLoadCommandHandler(c.fulfillmentUoWFactory(), c.reconciler, c.metrics)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.tolerance, c.metrics)
}

func (c *CompositionRoot) CreateGetItemQueryHandler() queries.GetItemQueryHandler {
	return queries.NewGetItemQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetAllItemsQueryHandler() queries.GetAllItemsQueryHandler {
	return queries.NewGetAllItemsQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetItemOperationsQueryHandler() queries.GetItemOperationsQueryHandler {
	return queries.NewGetItemOperationsQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetActiveOrderQueryHandler() queries.GetActiveOrderQueryHandler {
	return queries.NewGetActiveOrderQueryHandler(c.uowFactory)
}

// CreateRouter wires every handler behind the echo router.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		httpadapter.Commands{
			CreateItem:        c.CreateCreateItemCommandHandler(),
			UpdateItem:        c.CreateUpdateItemCommandHandler(),
			DeleteItem:        c.CreateDeleteItemCommandHandler(),
			CreateOrder:       c.CreateCreateOrderCommandHandler(),
			TakeCharge:        c.CreateTakeChargeCommandHandler(),
			ReportLoad:        c.CreateReportLoadCommandHandler(),
			ChangeOrderStatus: c.CreateChangeOrderStatusCommandHandler(),
		},
		httpadapter.Queries{
			GetItem:           c.CreateGetItemQueryHandler(),
			GetAllItems:       c.CreateGetAllItemsQueryHandler(),
			GetItemOperations: c.CreateGetItemOperationsQueryHandler(),
			GetOrderStatus:    c.CreateGetOrderStatusQueryHandler(),
			GetOrders:         c.CreateGetOrdersQueryHandler(),
			GetActiveOrder:    c.CreateGetActiveOrderQueryHandler(),
		},
		c.logger.With("component", "http"),
	)

	return httpadapter.NewRouter(server, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	schedule := c.configs.ActiveOrderWatchSchedule
	if schedule == "" {
		schedule = jobs.DefaultActiveOrderWatchSchedule
	}
	return jobs.NewJobManager(
		c.CreateGetActiveOrderQueryHandler(),
		c.metrics,
		schedule,
		c.configs.ActiveOrderStaleAfter,
		c.logger,
	)
}

func (c *CompositionRoot) catalogUoWFactory() commands.CatalogUoWFactory {
	return FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
