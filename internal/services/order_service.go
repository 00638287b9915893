package services

import (
	"context"
	"log/slog"
	"time"

	"eventrest/internal/status"
	"eventrest/models"
	"eventrest/monitoring"
	"eventrest/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// OrderService owns the order lifecycle: creation with atomic stock
// decrement and ticket issuance, cancellation with restock, and simulated
// payment settlement.
//
// Every stock-mutating path runs inside app.RunInTransaction and re-reads
// the batch row in that scope. PocketBase funnels write transactions through
// a single SQLite connection, so two purchases against the same batch
// serialize and the later one observes the committed stock; any error
// returned from the scope rolls back all of its mutations. Redis and PubNub
// calls never happen inside the transaction.
type OrderService struct {
	app    core.App
	notify *NotifyService
}

func NewOrderService(app core.App, notify *NotifyService) *OrderService {
	return &OrderService{
		app:    app,
		notify: notify,
	}
}

// PayParams carries the optional payment inputs. Amount, when present, must
// equal the order total exactly. ForcedOutcome ("success"/"fail") and the
// "card_declined" method are the simulation overrides.
type PayParams struct {
	Amount        *decimal.Decimal
	Method        string
	ForcedOutcome string
}

// Create reserves quantity tickets from a batch for the buyer. The stock
// check, decrement, order row and all ticket rows commit as one unit or not
// at all.
func (s *OrderService) Create(ctx context.Context, batchID string, quantity int, buyer models.Actor) (*models.Order, error) {
	if quantity <= 0 {
		monitoring.TrackOrderOperation("create", failureKind(status.ErrInvalidQuantity))
		return nil, status.ErrInvalidQuantity
	}

	var order *models.Order
	var remaining int

	err := s.app.RunInTransaction(func(tx core.App) error {
		batch, err := tx.FindRecordById(models.CollectionTicketBatches, batchID)
		if err != nil {
			return status.ErrNotFound
		}

		available := batch.GetInt("available_tickets")
		if err := checkPurchase(
			quantity,
			available,
			batch.GetDateTime("sale_start").Time(),
			batch.GetDateTime("sale_end").Time(),
			time.Now().UTC(),
		); err != nil {
			return err
		}

		price, err := decimal.NewFromString(batch.GetString("price"))
		if err != nil {
			return err
		}

		remaining = available - quantity
		batch.Set("available_tickets", remaining)
		if err := tx.Save(batch); err != nil {
			return err
		}

		ordersCol, err := tx.FindCollectionByNameOrId(models.CollectionOrders)
		if err != nil {
			return err
		}
		rec := core.NewRecord(ordersCol)
		rec.Set("user", buyer.ID)
		rec.Set("ticket_batch", batch.Id)
		rec.Set("quantity", quantity)
		rec.Set("total_price", orderTotal(price, quantity).String())
		rec.Set("status", string(models.OrderPending))
		if err := tx.Save(rec); err != nil {
			return err
		}

		ticketsCol, err := tx.FindCollectionByNameOrId(models.CollectionTickets)
		if err != nil {
			return err
		}
		tickets := make([]*models.Ticket, 0, quantity)
		for i := 0; i < quantity; i++ {
			number, err := utils.GenerateTicketNumber()
			if err != nil {
				return err
			}
			t := core.NewRecord(ticketsCol)
			t.Set("order", rec.Id)
			t.Set("user", buyer.ID)
			t.Set("event", batch.GetString("event"))
			t.Set("price", price.String())
			t.Set("ticket_number", number)
			if err := tx.Save(t); err != nil {
				return err
			}
			tickets = append(tickets, models.TicketFromRecord(t))
		}

		order = models.OrderFromRecord(rec)
		order.Tickets = tickets
		order.TicketBatch = models.TicketBatchFromRecord(batch)
		return nil
	})
	if err != nil {
		monitoring.TrackOrderOperation("create", failureKind(err))
		return nil, err
	}

	for _, t := range order.Tickets {
		t.MarkValidity(order.Status)
	}
	monitoring.TrackOrderOperation("create", "ok")
	monitoring.TrackTicketsIssued(quantity)
	monitoring.TrackBatchStock(batchID, remaining)
	s.notify.OrderCreated(ctx, order)

	return order, nil
}

// Cancel moves a pending order to cancelled and restores its quantity to the
// batch in the same transaction. Tickets are left intact; their validity is
// revoked through the order status.
func (s *OrderService) Cancel(ctx context.Context, orderID string, actor models.Actor) (*models.Order, error) {
	rec, err := s.app.FindRecordById(models.CollectionOrders, orderID)
	if err != nil {
		monitoring.TrackOrderOperation("cancel", failureKind(status.ErrNotFound))
		return nil, status.ErrNotFound
	}
	if !actor.CanAccessOrder(rec.GetString("user")) {
		monitoring.TrackOrderOperation("cancel", failureKind(status.ErrForbidden))
		return nil, status.ErrForbidden
	}

	var order *models.Order
	var batchID string
	var remaining int

	err = s.app.RunInTransaction(func(tx core.App) error {
		rec, err := tx.FindRecordById(models.CollectionOrders, orderID)
		if err != nil {
			return status.ErrNotFound
		}
		if err := guardTransition(models.OrderStatus(rec.GetString("status")), models.OrderCancelled); err != nil {
			return err
		}

		// The batch may have been deleted by an admin; cancellation still
		// proceeds, there is just nothing to restock.
		batch, err := tx.FindRecordById(models.CollectionTicketBatches, rec.GetString("ticket_batch"))
		if err == nil {
			remaining = batch.GetInt("available_tickets") + rec.GetInt("quantity")
			batch.Set("available_tickets", remaining)
			if err := tx.Save(batch); err != nil {
				return err
			}
			batchID = batch.Id
		}

		rec.Set("status", string(models.OrderCancelled))
		if err := tx.Save(rec); err != nil {
			return err
		}

		order = models.OrderFromRecord(rec)
		return nil
	})
	if err != nil {
		monitoring.TrackOrderOperation("cancel", failureKind(err))
		return nil, err
	}

	if err := s.attachTickets(order); err != nil {
		// The cancellation already committed; don't report it as failed.
		slog.Warn("could not load tickets for cancelled order", "order", order.ID, "error", err)
	}
	monitoring.TrackOrderOperation("cancel", "ok")
	if batchID != "" {
		monitoring.TrackBatchStock(batchID, remaining)
	}
	s.notify.OrderCancelled(ctx, order)

	return order, nil
}

// Pay settles a pending order through the simulated gateway. No stock moves:
// it was already committed at creation.
func (s *OrderService) Pay(ctx context.Context, orderID string, actor models.Actor, params PayParams) (*models.Order, error) {
	rec, err := s.app.FindRecordById(models.CollectionOrders, orderID)
	if err != nil {
		monitoring.TrackOrderOperation("pay", failureKind(status.ErrNotFound))
		return nil, status.ErrNotFound
	}
	if !actor.CanAccessOrder(rec.GetString("user")) {
		monitoring.TrackOrderOperation("pay", failureKind(status.ErrForbidden))
		return nil, status.ErrForbidden
	}

	var order *models.Order

	err = s.app.RunInTransaction(func(tx core.App) error {
		rec, err := tx.FindRecordById(models.CollectionOrders, orderID)
		if err != nil {
			return status.ErrNotFound
		}
		if err := guardTransition(models.OrderStatus(rec.GetString("status")), models.OrderPaid); err != nil {
			return err
		}

		total, err := decimal.NewFromString(rec.GetString("total_price"))
		if err != nil {
			return err
		}
		if err := checkPayment(total, params.Amount, params.Method, params.ForcedOutcome); err != nil {
			return err
		}

		rec.Set("status", string(models.OrderPaid))
		if err := tx.Save(rec); err != nil {
			return err
		}

		order = models.OrderFromRecord(rec)
		return nil
	})
	if err != nil {
		if errorsIsDeclined(err) {
			monitoring.TrackPaymentDeclined()
		}
		monitoring.TrackOrderOperation("pay", failureKind(err))
		return nil, err
	}

	if err := s.attachTickets(order); err != nil {
		// The payment already committed; don't report it as failed.
		slog.Warn("could not load tickets for paid order", "order", order.ID, "error", err)
	}
	monitoring.TrackOrderOperation("pay", "ok")
	s.notify.OrderPaid(ctx, order)

	return order, nil
}

// Get returns an order with its tickets and batch. Admins can read any
// order, users only their own.
func (s *OrderService) Get(orderID string, actor models.Actor) (*models.Order, error) {
	rec, err := s.app.FindRecordById(models.CollectionOrders, orderID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	if !actor.CanAccessOrder(rec.GetString("user")) {
		return nil, status.ErrForbidden
	}

	order := models.OrderFromRecord(rec)
	if err := s.attachTickets(order); err != nil {
		return nil, err
	}
	if batch, err := s.app.FindRecordById(models.CollectionTicketBatches, order.TicketBatchID); err == nil {
		order.TicketBatch = models.TicketBatchFromRecord(batch)
	}
	return order, nil
}

// ListForUser returns a user's orders, newest first.
func (s *OrderService) ListForUser(userID string, limit, offset int) ([]*models.Order, error) {
	records, err := s.app.FindRecordsByFilter(
		models.CollectionOrders,
		"user = {:user}",
		"-created",
		limit,
		offset,
		dbx.Params{"user": userID},
	)
	if err != nil {
		return nil, err
	}
	return s.ordersFromRecords(records)
}

// ListAll returns every order (admin), optionally filtered by user.
func (s *OrderService) ListAll(userID string, limit, offset int) ([]*models.Order, error) {
	filter := "id != ''"
	params := dbx.Params{}
	if userID != "" {
		filter = "user = {:user}"
		params["user"] = userID
	}

	records, err := s.app.FindRecordsByFilter(
		models.CollectionOrders,
		filter,
		"-created",
		limit,
		offset,
		params,
	)
	if err != nil {
		return nil, err
	}
	return s.ordersFromRecords(records)
}

func (s *OrderService) ordersFromRecords(records []*core.Record) ([]*models.Order, error) {
	orders := make([]*models.Order, 0, len(records))
	for _, rec := range records {
		order := models.OrderFromRecord(rec)
		if err := s.attachTickets(order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *OrderService) attachTickets(order *models.Order) error {
	records, err := s.app.FindRecordsByFilter(
		models.CollectionTickets,
		"order = {:order}",
		"created",
		0,
		0,
		dbx.Params{"order": order.ID},
	)
	if err != nil {
		return err
	}
	order.Tickets = make([]*models.Ticket, 0, len(records))
	for _, rec := range records {
		t := models.TicketFromRecord(rec)
		t.MarkValidity(order.Status)
		order.Tickets = append(order.Tickets, t)
	}
	return nil
}

func errorsIsDeclined(err error) bool {
	return failureKind(err) == "payment_declined"
}
