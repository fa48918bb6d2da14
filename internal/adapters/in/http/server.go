package http

import (
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Commands groups the command handlers served over HTTP.
type Commands struct {
	CreateItem        commands.CreateItemCommandHandler
	UpdateItem        commands.UpdateItemCommandHandler
	DeleteItem        commands.DeleteItemCommandHandler
	CreateOrder       commands.CreateOrderCommandHandler
	TakeCharge        commands.TakeChargeCommandHandler
	ReportLoad        commands.ReportLoadCommandHandler
	ChangeOrderStatus commands.ChangeOrderStatusCommandHandler
}

// Queries groups the query handlers served over HTTP.
type Queries struct {
	GetItem           queries.GetItemQueryHandler
	GetAllItems       queries.GetAllItemsQueryHandler
	GetItemOperations queries.GetItemOperationsQueryHandler
	GetOrderStatus    queries.GetOrderStatusQueryHandler
	GetOrders         queries.GetOrdersQueryHandler
	GetActiveOrder    queries.GetActiveOrderQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	commands Commands
	queries  Queries
	logger   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(cmds Commands, qs Queries, logger *slog.Logger) *Server {
	return &Server{
		commands: cmds,
		queries:  qs,
		logger:   logger,
	}
}

// GetItems handles GET /api/v1/items.
func (s *Server) GetItems(ctx echo.Context) error {
	items, err := s.queries.GetAllItems.Handle(ctx.Request().Context(), queries.NewGetAllItemsQuery())
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Item, 0, len(items))
	for _, i := range items {
		response = append(response, toItem(i))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateItem handles POST /api/v1/items. The item id is assigned here.
func (s *Server) CreateItem(ctx echo.Context) error {
	var input ItemInput
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	itemID := kernel.NewUUID()
	cmd, err := commands.NewCreateItemCommand(itemID, input.Name, input.Quantity)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if err = s.commands.CreateItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return s.respondItem(ctx, http.StatusCreated, itemID)
}

// GetItem handles GET /api/v1/items/{itemId}.
func (s *Server) GetItem(ctx echo.Context, itemId openapi_types.UUID) error {
	itemID, err := kernel.UUIDFromBytes(itemId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	return s.respondItem(ctx, http.StatusOK, itemID)
}

// UpdateItem handles PUT /api/v1/items/{itemId}.
func (s *Server) UpdateItem(ctx echo.Context, itemId openapi_types.UUID) error {
	var input ItemInput
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	itemID, err := kernel.UUIDFromBytes(itemId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewUpdateItemCommand(itemID, input.Name, input.Quantity)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if err = s.commands.UpdateItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return s.respondItem(ctx, http.StatusOK, itemID)
}

// DeleteItem handles DELETE /api/v1/items/{itemId}.
func (s *Server) DeleteItem(ctx echo.Context, itemId openapi_types.UUID) error {
	itemID, err := kernel.UUIDFromBytes(itemId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewDeleteItemCommand(itemID)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if err = s.commands.DeleteItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetItemOperations handles GET /api/v1/items/{itemId}/operations.
func (s *Server) GetItemOperations(ctx echo.Context, itemId openapi_types.UUID, params GetItemOperationsParams) error {
	itemID, err := kernel.UUIDFromBytes(itemId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	query, err := queries.NewGetItemOperationsQuery(itemID, deref(params.From), deref(params.To))
	if err != nil {
		return s.writeError(ctx, err)
	}

	ops, err := s.queries.GetItemOperations.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Operation, 0, len(ops))
	for _, op := range ops {
		response = append(response, Operation{
			Id:        op.ID.Bytes(),
			ItemId:    op.ItemID.Bytes(),
			OrderId:   op.OrderID.Bytes(),
			Kind:      op.Kind.String(),
			Quantity:  op.Quantity,
			Timestamp: op.Timestamp,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	var itemIDs []kernel.UUID
	if params.ItemId != nil {
		for _, raw := range *params.ItemId {
			id, err := kernel.UUIDFromBytes(raw[:])
			if err != nil {
				return s.writeError(ctx, err)
			}
			itemIDs = append(itemIDs, id)
		}
	}

	query, err := queries.NewGetOrdersQuery(deref(params.From), deref(params.To), itemIDs)
	if err != nil {
		return s.writeError(ctx, err)
	}

	orders, err := s.queries.GetOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Order, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrder(o))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders. Stock for every line is reserved
// in the same transaction.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var input NewOrder
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	lines := make([]order.LineRequest, 0, len(input.Lines))
	for _, l := range input.Lines {
		itemID, err := kernel.UUIDFromBytes(l.ItemId[:])
		if err != nil {
			return s.writeError(ctx, err)
		}
		lines = append(lines, order.LineRequest{ItemID: itemID, Quantity: l.Quantity})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, lines)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if err = s.commands.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderStatus{
		OrderId: orderID.Bytes(),
		Status:  order.Created.String(),
	})
}

// GetActiveOrder handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrder(ctx echo.Context) error {
	active, ok, err := s.queries.GetActiveOrder.Handle(ctx.Request().Context(), queries.NewGetActiveOrderQuery())
	if err != nil {
		return s.writeError(ctx, err)
	}
	if !ok {
		return s.writeError(ctx, commands.ErrNoActiveOrder)
	}
	return ctx.JSON(http.StatusOK, toOrder(active))
}

// GetOrderStatus handles GET /api/v1/orders/{orderId}/status.
func (s *Server) GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	query, err := queries.NewGetOrderStatusQuery(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	status, err := s.queries.GetOrderStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderStatus{
		OrderId: status.OrderID.Bytes(),
		Status:  status.Status.String(),
		Report:  toReport(status.Report),
	})
}

// ChangeOrderStatus handles PUT /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var input StatusChange
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	target, err := order.ParseStatus(input.Status)
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target)
	if err != nil {
		return s.writeError(ctx, err)
	}

	status, err := s.commands.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderStatus{
		OrderId: orderID.Bytes(),
		Status:  status.String(),
	})
}

// TakeCharge handles PUT /api/v1/orders/{orderId}/take-charge.
func (s *Server) TakeCharge(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewTakeChargeCommand(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if err = s.commands.TakeCharge.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderStatus{
		OrderId: orderID.Bytes(),
		Status:  order.InProgress.String(),
	})
}

// ReportOrderLoad handles POST /api/v1/orders/{orderId}/loads.
func (s *Server) ReportOrderLoad(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	return s.reportLoad(ctx, &orderID)
}

// ReportLoad handles POST /api/v1/loads against the order in progress.
func (s *Server) ReportLoad(ctx echo.Context) error {
	return s.reportLoad(ctx, nil)
}

func (s *Server) reportLoad(ctx echo.Context, orderID *kernel.UUID) error {
	var input Load
	if err := ctx.Bind(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	itemID, err := kernel.UUIDFromBytes(input.ItemId[:])
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewReportLoadCommand(orderID, itemID, input.Quantity)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.commands.ReportLoad.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if result.Outcome == services.Rejected {
		status := result.Status.String()
		return ctx.JSON(http.StatusUnprocessableEntity, Error{
			Code:    rejectionCode(result.Reason),
			Message: result.Reason.Error(),
			Status:  &status,
		})
	}

	return ctx.JSON(http.StatusOK, LoadResult{
		OrderId: result.OrderID.Bytes(),
		Outcome: result.Outcome.String(),
		Status:  result.Status.String(),
		Report:  toReport(result.Report),
	})
}

func (s *Server) respondItem(ctx echo.Context, code int, itemID kernel.UUID) error {
	query, err := queries.NewGetItemQuery(itemID)
	if err != nil {
		return s.writeError(ctx, err)
	}
	i, err := s.queries.GetItem.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(code, toItem(i))
}

func toItem(i queries.ItemResponse) Item {
	return Item{
		Id:                i.ID.Bytes(),
		Name:              i.Name,
		RequestedQuantity: i.RequestedQuantity,
		AvailableQuantity: i.AvailableQuantity,
		LoadedQuantity:    i.LoadedQuantity,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func toOrder(o queries.OrderResponse) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{
			ItemId:            l.ItemID.Bytes(),
			Position:          l.Position,
			RequestedQuantity: l.RequestedQuantity,
			LoadedQuantity:    l.LoadedQuantity,
		})
	}

	return Order{
		Id:                    o.ID.Bytes(),
		Status:                o.Status.String(),
		HighestLoadedPosition: o.HighestLoadedPosition,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Lines:                 lines,
	}
}

func toReport(report []order.LineReport) []LineReport {
	if len(report) == 0 {
		return nil
	}

	response := make([]LineReport, 0, len(report))
	for _, r := range report {
		response = append(response, LineReport{
			LineId:           r.LineID.Bytes(),
			ItemId:           r.ItemID.Bytes(),
			Position:         r.Position,
			Requested:        r.Requested,
			Loaded:           r.Loaded,
			Deviation:        r.Deviation,
			DeviationPercent: r.DeviationPercent.Float64(),
			ElapsedSeconds:   r.Elapsed.Seconds(),
		})
	}
	return response
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
