package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of api/openapi.yml.
type (
	ItemInput struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}

	Item struct {
		Id                openapi_types.UUID `json:"id"`
		Name              string             `json:"name"`
		RequestedQuantity int                `json:"requestedQuantity"`
		AvailableQuantity int                `json:"availableQuantity"`
		LoadedQuantity    int                `json:"loadedQuantity"`
		CreatedAt         time.Time          `json:"createdAt"`
		UpdatedAt         time.Time          `json:"updatedAt"`
	}

	Operation struct {
		Id        openapi_types.UUID `json:"id"`
		ItemId    openapi_types.UUID `json:"itemId"`
		OrderId   openapi_types.UUID `json:"orderId"`
		Kind      string             `json:"kind"`
		Quantity  int                `json:"quantity"`
		Timestamp time.Time          `json:"timestamp"`
	}

	NewOrderLine struct {
		ItemId   openapi_types.UUID `json:"itemId"`
		Quantity int                `json:"quantity"`
	}

	NewOrder struct {
		Lines []NewOrderLine `json:"lines"`
	}

	StatusChange struct {
		Status string `json:"status"`
	}

	OrderLine struct {
		ItemId            openapi_types.UUID `json:"itemId"`
		Position          int                `json:"position"`
		RequestedQuantity int                `json:"requestedQuantity"`
		LoadedQuantity    int                `json:"loadedQuantity"`
	}

	Order struct {
		Id                    openapi_types.UUID `json:"id"`
		Status                string             `json:"status"`
		HighestLoadedPosition int                `json:"highestLoadedPosition"`
		CreatedAt             time.Time          `json:"createdAt"`
		UpdatedAt             time.Time          `json:"updatedAt"`
		Lines                 []OrderLine        `json:"lines"`
	}

	LineReport struct {
		LineId           openapi_types.UUID `json:"lineId"`
		ItemId           openapi_types.UUID `json:"itemId"`
		Position         int                `json:"position"`
		Requested        int                `json:"requested"`
		Loaded           int                `json:"loaded"`
		Deviation        int                `json:"deviation"`
		DeviationPercent float64            `json:"deviationPercent"`
		ElapsedSeconds   float64            `json:"elapsedSeconds"`
	}

	OrderStatus struct {
		OrderId openapi_types.UUID `json:"orderId"`
		Status  string             `json:"status"`
		Report  []LineReport       `json:"report,omitempty"`
	}

	Load struct {
		ItemId   openapi_types.UUID `json:"itemId"`
		Quantity int                `json:"quantity"`
	}

	LoadResult struct {
		OrderId openapi_types.UUID `json:"orderId"`
		Outcome string             `json:"outcome"`
		Status  string             `json:"status"`
		Report  []LineReport       `json:"report,omitempty"`
	}

	Error struct {
		Code    string  `json:"code"`
		Message string  `json:"message"`
		Status  *string `json:"status,omitempty"`
	}
)

// GetItemOperationsParams defines parameters for GetItemOperations.
type GetItemOperationsParams struct {
	From *time.Time `form:"from,omitempty" json:"from,omitempty"`
	To   *time.Time `form:"to,omitempty" json:"to,omitempty"`
}

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams struct {
	From   *time.Time            `form:"from,omitempty" json:"from,omitempty"`
	To     *time.Time            `form:"to,omitempty" json:"to,omitempty"`
	ItemId *[]openapi_types.UUID `form:"itemId,omitempty" json:"itemId,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// GET /api/v1/items
	GetItems(ctx echo.Context) error
	// POST /api/v1/items
	CreateItem(ctx echo.Context) error
	// GET /api/v1/items/{itemId}
	GetItem(ctx echo.Context, itemId openapi_types.UUID) error
	// PUT /api/v1/items/{itemId}
	UpdateItem(ctx echo.Context, itemId openapi_types.UUID) error
	// DELETE /api/v1/items/{itemId}
	DeleteItem(ctx echo.Context, itemId openapi_types.UUID) error
	// GET /api/v1/items/{itemId}/operations
	GetItemOperations(ctx echo.Context, itemId openapi_types.UUID, params GetItemOperationsParams) error
	// GET /api/v1/orders
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// POST /api/v1/orders
	CreateOrder(ctx echo.Context) error
	// GET /api/v1/orders/active
	GetActiveOrder(ctx echo.Context) error
	// GET /api/v1/orders/{orderId}/status
	GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// PUT /api/v1/orders/{orderId}/status
	ChangeOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// PUT /api/v1/orders/{orderId}/take-charge
	TakeCharge(ctx echo.Context, orderId openapi_types.UUID) error
	// POST /api/v1/orders/{orderId}/loads
	ReportOrderLoad(ctx echo.Context, orderId openapi_types.UUID) error
	// POST /api/v1/loads
	ReportLoad(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetItems(ctx echo.Context) error {
	return w.Handler.GetItems(ctx)
}

func (w *ServerInterfaceWrapper) CreateItem(ctx echo.Context) error {
	return w.Handler.CreateItem(ctx)
}

func (w *ServerInterfaceWrapper) GetItem(ctx echo.Context) error {
	itemId, err := bindPathUUID(ctx, "itemId")
	if err != nil {
		return err
	}
	return w.Handler.GetItem(ctx, itemId)
}

func (w *ServerInterfaceWrapper) UpdateItem(ctx echo.Context) error {
	itemId, err := bindPathUUID(ctx, "itemId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateItem(ctx, itemId)
}

func (w *ServerInterfaceWrapper) DeleteItem(ctx echo.Context) error {
	itemId, err := bindPathUUID(ctx, "itemId")
	if err != nil {
		return err
	}
	return w.Handler.DeleteItem(ctx, itemId)
}

func (w *ServerInterfaceWrapper) GetItemOperations(ctx echo.Context) error {
	itemId, err := bindPathUUID(ctx, "itemId")
	if err != nil {
		return err
	}

	var params GetItemOperationsParams
	if err = bindQuery(ctx, "from", &params.From); err != nil {
		return err
	}
	if err = bindQuery(ctx, "to", &params.To); err != nil {
		return err
	}

	return w.Handler.GetItemOperations(ctx, itemId, params)
}

func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams
	if err := bindQuery(ctx, "from", &params.From); err != nil {
		return err
	}
	if err := bindQuery(ctx, "to", &params.To); err != nil {
		return err
	}
	if err := bindQuery(ctx, "itemId", &params.ItemId); err != nil {
		return err
	}

	return w.Handler.GetOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetActiveOrder(ctx echo.Context) error {
	return w.Handler.GetActiveOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrderStatus(ctx echo.Context) error {
	orderId, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	orderId, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) TakeCharge(ctx echo.Context) error {
	orderId, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.TakeCharge(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ReportOrderLoad(ctx echo.Context) error {
	orderId, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ReportOrderLoad(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ReportLoad(ctx echo.Context) error {
	return w.Handler.ReportLoad(ctx)
}

func bindPathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func bindQuery(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used for registration.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/api/v1/items", w.GetItems)
	router.POST(baseURL+"/api/v1/items", w.CreateItem)
	router.GET(baseURL+"/api/v1/items/:itemId", w.GetItem)
	router.PUT(baseURL+"/api/v1/items/:itemId", w.UpdateItem)
	router.DELETE(baseURL+"/api/v1/items/:itemId", w.DeleteItem)
	router.GET(baseURL+"/api/v1/items/:itemId/operations", w.GetItemOperations)
	router.GET(baseURL+"/api/v1/orders", w.GetOrders)
	router.POST(baseURL+"/api/v1/orders", w.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/active", w.GetActiveOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId/status", w.GetOrderStatus)
	router.PUT(baseURL+"/api/v1/orders/:orderId/status", w.ChangeOrderStatus)
	router.PUT(baseURL+"/api/v1/orders/:orderId/take-charge", w.TakeCharge)
	router.POST(baseURL+"/api/v1/orders/:orderId/loads", w.ReportOrderLoad)
	router.POST(baseURL+"/api/v1/loads", w.ReportLoad)
}
