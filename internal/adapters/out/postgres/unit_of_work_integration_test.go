package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE items, orders, order_lines, operations").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryCommit() {
	ctx := context.Background()
	flour := suite.createTestItem("Flour", 50)
	testOrder := suite.createTestOrder(flour.ID(), 20)
	unload, err := operation.NewUnload(flour.ID(), testOrder.ID(), 20, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ItemRepository().Add(ctx, flour))
	suite.Require().NoError(flour.Reserve(20, now))
	suite.Require().NoError(uow.ItemRepository().Update(ctx, flour))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.OperationRepository().Add(ctx, unload))

	tracked, ok := uow.(*postgres_adapter.GormUnitOfWork)
	suite.Require().True(ok)
	suite.Equal([]kernel.UUID{flour.ID(), flour.ID(), testOrder.ID()}, tracked.TrackedIDs())

	suite.Require().NoError(uow.Commit(ctx))
	suite.Empty(tracked.TrackedIDs())

	reader := suite.factory.Create()
	stored, err := reader.ItemRepository().Get(ctx, flour.ID())
	suite.Require().NoError(err)
	suite.Equal(30, stored.AvailableQuantity())

	ops, err := reader.OperationRepository().FindByItem(ctx, flour.ID(), time.Time{}, time.Time{})
	suite.Require().NoError(err)
	suite.Require().Len(ops, 1)
	suite.Equal(operation.Unload, ops[0].Kind())
	suite.Equal(20, ops[0].Quantity())
	suite.Equal(testOrder.ID(), ops[0].OrderID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEveryRepository() {
	ctx := context.Background()
	flour := suite.createTestItem("Flour", 50)
	testOrder := suite.createTestOrder(flour.ID(), 20)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ItemRepository().Add(ctx, flour))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err := reader.ItemRepository().Get(ctx, flour.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = reader.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOperationRepository_FindByItemWithinRange() {
	ctx := context.Background()
	itemID, orderID := kernel.NewUUID(), kernel.NewUUID()
	early, err := operation.NewUnload(itemID, orderID, 10, now)
	suite.Require().NoError(err)
	late, err := operation.NewLoad(itemID, orderID, 4, now.Add(time.Hour))
	suite.Require().NoError(err)

	repo := suite.factory.Create().OperationRepository()
	suite.Require().NoError(repo.Add(ctx, late, early))

	all, err := repo.FindByItem(ctx, itemID, time.Time{}, time.Time{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.Equal(early.ID(), all[0].ID())

	bounded, err := repo.FindByItem(ctx, itemID, now.Add(time.Minute), now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(bounded, 1)
	suite.Equal(operation.Load, bounded[0].Kind())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCreateOrder_ConcurrentReservationsNeverOverAllocate() {
	ctx := context.Background()
	flour := suite.createTestItem("Flour", 50)
	suite.Require().NoError(suite.factory.Create().ItemRepository().Add(ctx, flour))

	handler := commands.NewCreateOrderCommandHandler(uowFactory{suite.factory}, nopMetrics{})

	const attempts = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		failures []error
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), []order.LineRequest{
				{ItemID: flour.ID(), Quantity: 10},
			})
			if err == nil {
				err = handler.Handle(ctx, cmd)
			}

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			if !errors.Is(err, item.ErrInsufficientStock) {
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	suite.Empty(failures)
	suite.Equal(5, accepted)

	stored, err := suite.factory.Create().ItemRepository().Get(ctx, flour.ID())
	suite.Require().NoError(err)
	suite.Equal(0, stored.AvailableQuantity())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTakeCharge_ConcurrentOrdersLeaveOneInProgress() {
	ctx := context.Background()
	orders := suite.factory.Create().OrderRepository()

	const candidates = 6
	ids := make([]kernel.UUID, 0, candidates)
	for range candidates {
		o := suite.createTestOrder(kernel.NewUUID(), 10)
		suite.Require().NoError(orders.Add(ctx, o))
		ids = append(ids, o.ID())
	}

	handler := commands.NewTakeChargeCommandHandler(orderUoWFactory{suite.factory}, nopMetrics{})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		failures []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewTakeChargeCommand(id)
			if err == nil {
				err = handler.Handle(ctx, cmd)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case !errors.Is(err, order.ErrActiveOrderExists):
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	suite.Empty(failures)
	suite.Equal(1, winners)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestItem(name string, quantity int) *item.Item {
	i, err := item.NewItem(kernel.NewUUID(), name, quantity, now)
	suite.Require().NoError(err)
	return i
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(itemID kernel.UUID, quantity int) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), []order.LineRequest{{ItemID: itemID, Quantity: quantity}}, now)
	suite.Require().NoError(err)
	return o
}

type uowFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW { return f.factory.Create() }

type orderUoWFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f orderUoWFactory) Create() commands.OrderUoW { return f.factory.Create() }

type nopMetrics struct{}

func (nopMetrics) OrderCreated()                      {}
func (nopMetrics) OrderStatusChanged(string)          {}
func (nopMetrics) LoadReconciled(string, string, int) {}
func (nopMetrics) ReservationRejected(string)         {}
func (nopMetrics) ActiveOrderAge(time.Duration)       {}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
