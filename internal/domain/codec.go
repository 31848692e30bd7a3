package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// LineItem is one entry of a transaction's item list. The desktop client
// sends numbers and numeric strings interchangeably, so decoding is lenient.
type LineItem struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := ToInt64(raw["id"])
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	qty, err := ToInt(raw["quantity"])
	if err != nil {
		return fmt.Errorf("item quantity: %w", err)
	}
	price, err := ToDecimal(raw["price"])
	if err != nil {
		return fmt.Errorf("item price: %w", err)
	}

	*li = LineItem{
		ID:          id,
		ProductName: cast.ToString(raw["product_name"]),
		SKU:         cast.ToString(raw["sku"]),
		Price:       price,
		Quantity:    qty,
	}
	return nil
}

// CustomerRef is the customer attached to a transaction. The zero value
// means "walk-in" and is encoded as 0, matching what older clients store.
type CustomerRef struct {
	ID      int64
	Name    string
	Phone   string
	Email   string
	Address string
}

type customerRefObject struct {
	ID      int64  `json:"_id"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c CustomerRef) IsZero() bool {
	return c == CustomerRef{}
}

func (c CustomerRef) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("0"), nil
	}
	if c.Name == "" && c.Phone == "" && c.Email == "" && c.Address == "" {
		return json.Marshal(c.ID)
	}
	return json.Marshal(customerRefObject(c))
}

func (c *CustomerRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = CustomerRef{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var raw map[string]any
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		idValue, ok := raw["_id"]
		if !ok {
			idValue = raw["id"]
		}
		id, err := ToInt64(idValue)
		if err != nil {
			return fmt.Errorf("customer id: %w", err)
		}
		*c = CustomerRef{
			ID:      id,
			Name:    cast.ToString(raw["name"]),
			Phone:   cast.ToString(raw["phone"]),
			Email:   cast.ToString(raw["email"]),
			Address: cast.ToString(raw["address"]),
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "0" {
			*c = CustomerRef{}
			return nil
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			*c = CustomerRef{ID: id}
			return nil
		}
		// Older clients occasionally stored a bare name.
		*c = CustomerRef{Name: s}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		id, err := ToInt64(string(n))
		if err != nil {
			return fmt.Errorf("customer id: %w", err)
		}
		*c = CustomerRef{ID: id}
		return nil
	}
}

// EncodeItems and the helpers below form the storage boundary: items and
// customers live as JSON text in their table columns.
func EncodeItems(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func DecodeItems(raw string) ([]LineItem, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}

func EncodeCustomer(c CustomerRef) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func DecodeCustomer(raw string) (CustomerRef, error) {
	var c CustomerRef
	if strings.TrimSpace(raw) == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return CustomerRef{}, err
	}
	return c, nil
}

// ToInt64 reads numbers and numeric strings. Strings are always base 10, so
// "010" is 10, and a fractional value keeps only its integer part.
func ToInt64(v any) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		return parseDecimalInt(val)
	case json.Number:
		return parseDecimalInt(string(val))
	default:
		return cast.ToInt64E(val)
	}
}

func parseDecimalInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return d.IntPart(), nil
}

func ToInt(v any) (int, error) {
	n, err := ToInt64(v)
	return int(n), err
}

func ToDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return val, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(val)
	default:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(f), nil
	}
}

type transactionWire struct {
	ID          any         `json:"_id"`
	OrderID     any         `json:"order_id"`
	Order       any         `json:"order"`
	RefNumber   any         `json:"ref_number"`
	Discount    any         `json:"discount"`
	Customer    CustomerRef `json:"customer"`
	Status      any         `json:"status"`
	Subtotal    any         `json:"subtotal"`
	Tax         any         `json:"tax"`
	OrderType   any         `json:"order_type"`
	Items       []LineItem  `json:"items"`
	Date        any         `json:"date"`
	PaymentType any         `json:"payment_type"`
	PaymentInfo any         `json:"payment_info"`
	Total       any         `json:"total"`
	Paid        any         `json:"paid"`
	Change      any         `json:"change"`
	Till        any         `json:"till"`
	Mac         any         `json:"mac"`
	User        any         `json:"user"`
	UserID      any         `json:"user_id"`
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var errs []error
	dec := func(field string, v any) decimal.Decimal {
		d, err := ToDecimal(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return d
	}
	num := func(field string, v any) int64 {
		n, err := ToInt64(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return n
	}

	orderID := cast.ToString(w.OrderID)
	if orderID == "" {
		orderID = cast.ToString(w.Order)
	}

	*t = Transaction{
		ID:          cast.ToString(w.ID),
		OrderID:     orderID,
		RefNumber:   cast.ToString(w.RefNumber),
		Discount:    dec("discount", w.Discount),
		Customer:    w.Customer,
		Status:      int(num("status", w.Status)),
		Subtotal:    dec("subtotal", w.Subtotal),
		Tax:         dec("tax", w.Tax),
		OrderType:   int(num("order_type", w.OrderType)),
		Items:       w.Items,
		Date:        cast.ToString(w.Date),
		PaymentType: cast.ToString(w.PaymentType),
		PaymentInfo: cast.ToString(w.PaymentInfo),
		Total:       dec("total", w.Total),
		Paid:        dec("paid", w.Paid),
		Change:      dec("change", w.Change),
		Till:        num("till", w.Till),
		Mac:         cast.ToString(w.Mac),
		User:        cast.ToString(w.User),
		UserID:      num("user_id", w.UserID),
	}
	if t.Items == nil {
		t.Items = []LineItem{}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (s *Statistic) UnmarshalJSON(data []byte) error {
	var w struct {
		ID          any `json:"_id"`
		Date        any `json:"date"`
		Value       any `json:"value"`
		Description any `json:"description"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	value, err := ToDecimal(w.Value)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	*s = Statistic{
		ID:          cast.ToString(w.ID),
		Date:        cast.ToString(w.Date),
		Value:       value,
		Description: cast.ToString(w.Description),
	}
	return nil
}
