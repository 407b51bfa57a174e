package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"dely/internal/models"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	orderID uuid.UUID
	userID  uuid.UUID
	ctx     context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) orderRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "order_number", "user_id", "status", "payment_method", "payment_status",
		"delivery_address", "payment_details", "subtotal", "discount", "delivery_charge",
		"tax", "total", "tracking_number", "notes", "cancelled_at", "cancelled_reason",
		"created_at", "updated_at",
	}).AddRow(
		suite.orderID, "DELY1700000000123456", &suite.userID, "pending", (*string)(nil), "pending",
		models.DeliveryAddress{State: "Uttar Pradesh"}, map[string]any(nil),
		decimal.NewFromInt(200), decimal.Zero, decimal.NewFromInt(50),
		decimal.NewFromInt(36), decimal.NewFromInt(286),
		(*string)(nil), (*string)(nil), (*time.Time)(nil), (*string)(nil),
		now, now,
	)
}

func (suite *OrderRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
		WithArgs(suite.orderID).
		WillReturnRows(suite.orderRows())

	order, err := suite.repo.GetByID(suite.ctx, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
	assert.Equal(suite.T(), "DELY1700000000123456", order.OrderNumber)
	assert.True(suite.T(), decimal.NewFromInt(286).Equal(order.Total))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	order, err := suite.repo.GetByID(suite.ctx, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), order)
}

func (suite *OrderRepoTestSuite) TestGetByIdentifier_FallsBackToOrderNumber() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE order_number = \$1`).
		WithArgs("DELY1700000000123456").
		WillReturnRows(suite.orderRows())

	order, err := suite.repo.GetByIdentifier(suite.ctx, "DELY1700000000123456")
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_Success() {
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs("shipped", suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.ctx, suite.orderID, "shipped")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestMarkCancelled_RestocksInTransaction() {
	reason := "changed my mind"

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1, cancelled_at = NOW\(\)`).
		WithArgs(models.OrderStatusCancelled, &reason, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE products p SET stock_quantity = p.stock_quantity \+ oi.quantity`).
		WithArgs(suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	suite.mock.ExpectCommit()

	err := suite.repo.MarkCancelled(suite.ctx, suite.orderID, &reason)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_RollsBackOnItemFailure() {
	order := &models.Order{
		ID:          suite.orderID,
		OrderNumber: "DELY1700000000654321",
		UserID:      &suite.userID,
		Status:      models.OrderStatusPending,
	}
	productID := uuid.New()
	items := []*models.OrderItem{{
		ID:        uuid.New(),
		OrderID:   suite.orderID,
		ProductID: &productID,
		Quantity:  1,
	}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithItems(suite.ctx, order, items)
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCompleteDeliveredBefore() {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs(models.OrderStatusCompleted, models.OrderStatusDelivered, cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	settled, err := suite.repo.CompleteDeliveredBefore(suite.ctx, cutoff)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), settled)
}
