package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/customer"
	"orderdesk/internal/format"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"
	"orderdesk/internal/product"
	"orderdesk/internal/sms"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

// bindings declares every command the session answers to.
func (a *App) bindings() []Binding {
	return []Binding{
		{Trigger: "customers list", Summary: "List customers", MaxArgs: 0, Handler: a.listCustomers},
		{Trigger: "customers search", Summary: "Search customers by name or phone number", Usage: "<term>", MinArgs: 1, MaxArgs: -1, Handler: a.searchCustomers},
		{Trigger: "customers add", Summary: "Add a customer", Usage: "<name> <phone>", MinArgs: 2, MaxArgs: 2, Handler: a.addCustomer},
		{Trigger: "customers delete", Summary: "Delete a customer", Usage: "<id>", MinArgs: 1, MaxArgs: 1, Handler: a.deleteCustomer},

		{Trigger: "products list", Summary: "List products", MaxArgs: 0, Handler: a.listProducts},
		{Trigger: "products search", Summary: "Search products by name or type", Usage: "<term>", MinArgs: 1, MaxArgs: -1, Handler: a.searchProducts},
		{Trigger: "products add", Summary: "Add a product", Usage: "<name> <price> <stock> <type>", MinArgs: 4, MaxArgs: 4, Handler: a.addProduct},
		{Trigger: "products delete", Summary: "Delete a product", Usage: "<id>", MinArgs: 1, MaxArgs: 1, Handler: a.deleteProduct},

		{Trigger: "orders list", Summary: "List orders", MaxArgs: 0, Handler: a.listOrders},
		{Trigger: "orders search", Summary: "Search orders by customer name or event date (YYYY-MM-DD)", Usage: "<term>", MinArgs: 1, MaxArgs: -1, Handler: a.searchOrders},
		{
			Trigger: "orders add",
			Summary: "Create an order from product:quantity:price lines",
			Usage:   "<customer-id> <event-date> <product-id:qty:price>...",
			MinArgs: 2,
			MaxArgs: -1,
			Flags:   []Flag{{Name: "status", Usage: "initial order status", Default: string(status.Pending)}},
			Handler: a.addOrder,
		},
		{Trigger: "orders delete", Summary: "Delete an order", Usage: "<id>", MinArgs: 1, MaxArgs: 1, Handler: a.deleteOrder},
		{Trigger: "orders status", Summary: "Change an order's status", Usage: "<id> <status>", MinArgs: 2, MaxArgs: 2, Handler: a.updateOrderStatus},
		{Trigger: "orders pay", Summary: "Record a payment against an order", Usage: "<id> <amount>", MinArgs: 2, MaxArgs: 2, Handler: a.recordPayment},

		{Trigger: "sms list", Summary: "List M-PESA payment transactions", MaxArgs: 0, Handler: a.listTransactions},
		{Trigger: "sms unmatched", Summary: "List payments not yet applied to an order", MaxArgs: 0, Handler: a.listUnmatched},
		{Trigger: "sms show", Summary: "Show one payment transaction", Usage: "<id>", MinArgs: 1, MaxArgs: 1, Handler: a.showTransaction},
		{Trigger: "sms record", Summary: "Record a forwarded M-PESA confirmation", Usage: "<message>...", MinArgs: 1, MaxArgs: -1, Handler: a.recordTransaction},
		{Trigger: "sms match", Summary: "Apply a payment transaction to an order", Usage: "<id> <order-id>", MinArgs: 2, MaxArgs: 2, Handler: a.matchTransaction},
		{Trigger: "sms delete", Summary: "Delete a payment transaction", Usage: "<id>", MinArgs: 1, MaxArgs: 1, Handler: a.deleteTransaction},

		{
			Trigger: "calendar",
			Summary: "Show the month of event dates",
			Usage:   "[YYYY-MM]",
			MaxArgs: 1,
			Flags:   []Flag{{Name: "select", Usage: "day whose events are listed (YYYY-MM-DD)"}},
			Handler: a.showCalendar,
		},
		{
			Trigger: "watch-search",
			Summary: "Search as you type: one query per input line",
			Usage:   "<customers|products|orders>",
			MinArgs: 1,
			MaxArgs: 1,
			Flags:   []Flag{{Name: "throttle", Usage: "throttle instead of debounce", Default: "false"}},
			Handler: a.watchSearch,
		},
	}
}

// --- Customers ---

func (a *App) listCustomers(ctx context.Context, req Request) error {
	if _, err := a.Customers.List(ctx); err != nil {
		return err
	}
	return a.Customers.Render(req.Out)
}

func (a *App) searchCustomers(ctx context.Context, req Request) error {
	if _, err := a.Customers.Search(ctx, strings.Join(req.Args, " ")); err != nil {
		return err
	}
	return a.Customers.Render(req.Out)
}

func (a *App) addCustomer(ctx context.Context, req Request) error {
	c, err := a.Customers.Create(ctx, req.Args[0], req.Args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Customer #%d %s (%s) added\n", c.ID, c.Name, format.DisplayPhone(c.Number))
	return nil
}

func (a *App) deleteCustomer(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	err = a.Customers.Delete(ctx, id)
	if errors.Is(err, customer.ErrNotFound) {
		return notice(req.Out, "Customer #%d was already removed; list refreshed", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Customer #%d deleted\n", id)
	return nil
}

// --- Products ---

func (a *App) listProducts(ctx context.Context, req Request) error {
	if _, err := a.Products.List(ctx); err != nil {
		return err
	}
	return a.Products.Render(req.Out)
}

func (a *App) searchProducts(ctx context.Context, req Request) error {
	if _, err := a.Products.Search(ctx, strings.Join(req.Args, " ")); err != nil {
		return err
	}
	return a.Products.Render(req.Out)
}

func (a *App) addProduct(ctx context.Context, req Request) error {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Args[1]))
	if err != nil {
		return fmt.Errorf("%w: price %q is not a number", ErrUsage, req.Args[1])
	}
	stock, err := strconv.Atoi(strings.TrimSpace(req.Args[2]))
	if err != nil {
		return fmt.Errorf("%w: stock %q is not a whole number", ErrUsage, req.Args[2])
	}

	p, err := a.Products.Create(ctx, product.NewProduct{
		Name:  req.Args[0],
		Price: price,
		Stock: stock,
		Type:  product.Type(req.Args[3]),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Product #%d %s (%s, %s) added\n", p.ID, p.Name, p.Type, format.Money(p.Price))
	return nil
}

func (a *App) deleteProduct(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	err = a.Products.Delete(ctx, id)
	if errors.Is(err, product.ErrNotFound) {
		return notice(req.Out, "Product #%d was already removed; list refreshed", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Product #%d deleted\n", id)
	return nil
}

// --- Orders ---

func (a *App) listOrders(ctx context.Context, req Request) error {
	if _, err := a.Orders.List(ctx); err != nil {
		return err
	}
	return a.Orders.Render(req.Out)
}

func (a *App) searchOrders(ctx context.Context, req Request) error {
	if _, err := a.Orders.Search(ctx, strings.Join(req.Args, " ")); err != nil {
		return err
	}
	return a.Orders.Render(req.Out)
}

func (a *App) addOrder(ctx context.Context, req Request) error {
	draft := pricing.Draft{
		CustomerID:  req.Args[0],
		DateOfEvent: req.Args[1],
	}
	if raw := req.Flag("status"); raw != "" {
		st, err := status.ParseOrder(raw)
		if err != nil {
			return err
		}
		draft.Status = st
	}
	for _, arg := range req.Args[2:] {
		item, err := parseLine(arg)
		if err != nil {
			return err
		}
		draft.LineItems = append(draft.LineItems, item)
	}

	for i, item := range draft.LineItems {
		fmt.Fprintf(req.Out, "  line %d: %d x %s = %s\n", i+1, item.Quantity, format.Money(item.UnitPrice), format.Money(item.Subtotal()))
	}
	fmt.Fprintf(req.Out, "Order total: %s\n", format.Money(pricing.OrderTotal(draft.ValidItems())))

	created, err := a.Orders.Create(ctx, draft)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		fmt.Fprintln(req.Out, "Order created")
		return nil
	}
	fmt.Fprintf(req.Out, "Order #%d created for %s\n", created.ID, format.Or(created.CustomerName, "customer #"+draft.CustomerID))
	return nil
}

func (a *App) deleteOrder(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	err = a.Orders.Delete(ctx, id)
	if errors.Is(err, order.ErrOrderNotFound) {
		return notice(req.Out, "Order #%d was already removed; list refreshed", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Order #%d deleted\n", id)
	return nil
}

func (a *App) updateOrderStatus(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	next, err := status.ParseOrder(req.Args[1])
	if err != nil {
		return err
	}
	if _, err := a.Orders.List(ctx); err != nil {
		return err
	}

	updated, err := a.Orders.UpdateStatus(ctx, id, next)
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Order #%d is now %s\n", id, updated.Status.Label())
	return nil
}

func (a *App) recordPayment(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	amount, err := pricing.ParseAmount(req.Args[1])
	if err != nil {
		return err
	}

	updated, err := a.Orders.RecordPayment(ctx, id, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Recorded %s on order #%d: paid %s, balance %s (%s)\n",
		format.Money(amount), id,
		format.Money(updated.PaidAmount), format.Money(updated.Balance()), updated.Payment())
	return nil
}

// --- SMS payments ---

func (a *App) listTransactions(ctx context.Context, req Request) error {
	if _, err := a.Transactions.List(ctx); err != nil {
		return err
	}
	return a.Transactions.Render(req.Out)
}

func (a *App) listUnmatched(ctx context.Context, req Request) error {
	if _, err := a.Transactions.Unmatched(ctx); err != nil {
		return err
	}
	return a.Transactions.Render(req.Out)
}

func (a *App) showTransaction(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	t, err := a.Transactions.Get(ctx, id)
	if err != nil {
		return err
	}

	applied := "none"
	if t.OrderID != nil {
		applied = fmt.Sprintf("order #%d", *t.OrderID)
	}
	fmt.Fprintf(req.Out, "Transaction #%d %s\n", t.ID, t.TransactionID)
	fmt.Fprintf(req.Out, "  amount: %s\n", format.Money(t.Amount))
	fmt.Fprintf(req.Out, "  from:   %s (%s)\n", t.CustomerName, format.DisplayPhone(t.CustomerNumber))
	fmt.Fprintf(req.Out, "  date:   %s\n", t.TransactionDate)
	fmt.Fprintf(req.Out, "  status: %s, applied to %s\n", t.Status.Label(), applied)
	return nil
}

func (a *App) recordTransaction(ctx context.Context, req Request) error {
	receipt, err := a.Transactions.Record(ctx, strings.Join(req.Args, " "))
	if err != nil {
		return err
	}

	t := receipt.Transaction
	head := fmt.Sprintf("Transaction %s (%s from %s)", t.TransactionID, format.Money(t.Amount), t.CustomerName)
	switch {
	case t.Status == sms.StatusMatched && t.OrderID != nil:
		fmt.Fprintf(req.Out, "%s matched to order #%d\n", head, *t.OrderID)
	case t.Status == sms.StatusPartial && t.OrderID != nil:
		fmt.Fprintf(req.Out, "%s applied up to order #%d; the excess is unassigned\n", head, *t.OrderID)
	default:
		fmt.Fprintf(req.Out, "%s recorded as unmatched\n", head)
	}
	return nil
}

func (a *App) matchTransaction(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	orderID, err := parseID(req.Args[1])
	if err != nil {
		return err
	}
	if _, err := a.Transactions.List(ctx); err != nil {
		return err
	}

	if _, err := a.Transactions.Match(ctx, id, orderID); err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Transaction #%d matched to order #%d\n", id, orderID)
	return nil
}

func (a *App) deleteTransaction(ctx context.Context, req Request) error {
	id, err := parseID(req.Args[0])
	if err != nil {
		return err
	}
	err = a.Transactions.Delete(ctx, id)
	if errors.Is(err, sms.ErrNotFound) {
		return notice(req.Out, "Transaction #%d was already removed; list refreshed", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(req.Out, "Transaction #%d deleted\n", id)
	return nil
}

// --- Calendar ---

func (a *App) showCalendar(ctx context.Context, req Request) error {
	today := a.now()
	year, month := today.Year(), today.Month()
	if len(req.Args) == 1 {
		t, err := time.Parse(monthLayout, req.Args[0])
		if err != nil {
			return fmt.Errorf("%w: month %q must be YYYY-MM", ErrUsage, req.Args[0])
		}
		year, month = t.Year(), t.Month()
	}

	var selected time.Time
	if raw := req.Flag("select"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("%w: day %q must be YYYY-MM-DD", ErrUsage, raw)
		}
		selected = t
	}

	if err := a.Calendar.Load(ctx); err != nil {
		return err
	}
	return a.Calendar.Render(req.Out, year, month, dateOnly(today), selected)
}

// --- Helpers ---

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive number", ErrUsage, raw)
	}
	return id, nil
}

// parseLine reads "product:qty:price". Quantity and price are read leniently
// the way the order form reads them.
func parseLine(arg string) (pricing.LineItem, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return pricing.LineItem{}, fmt.Errorf("%w: line %q must be product-id:qty:price", ErrUsage, arg)
	}
	return pricing.ParseLineItem(parts[0], parts[1], parts[2]), nil
}

func notice(w io.Writer, msg string, args ...any) error {
	fmt.Fprintf(w, "Notice: %s\n", fmt.Sprintf(msg, args...))
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
