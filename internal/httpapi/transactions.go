package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
)

func (a *API) handleListTransactions(c *gin.Context) {
	txs, err := a.service.ListTransactions(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, txs)
}

func (a *API) handleListOnHold(c *gin.Context) {
	txs, err := a.service.ListOnHold(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, txs)
}

func (a *API) handleListCustomerOrders(c *gin.Context) {
	txs, err := a.service.ListCustomerOrders(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, txs)
}

func (a *API) handleTransactionsByDate(c *gin.Context) {
	filter, err := transactionFilterFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	txs, err := a.service.ListTransactionsByDate(c.Request.Context(), filter)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, txs)
}

type transactionCSVRow struct {
	ID          string `csv:"id"`
	OrderID     string `csv:"order_id"`
	Date        string `csv:"date"`
	Status      int    `csv:"status"`
	RefNumber   string `csv:"ref_number"`
	Customer    int64  `csv:"customer_id"`
	Items       int    `csv:"items"`
	Subtotal    string `csv:"subtotal"`
	Discount    string `csv:"discount"`
	Tax         string `csv:"tax"`
	Total       string `csv:"total"`
	Paid        string `csv:"paid"`
	Change      string `csv:"change"`
	PaymentType string `csv:"payment_type"`
	Till        int64  `csv:"till"`
	UserID      int64  `csv:"user_id"`
	User        string `csv:"user"`
}

// handleExportTransactions streams the by-date result as CSV for spreadsheets.
func (a *API) handleExportTransactions(c *gin.Context) {
	filter, err := transactionFilterFrom(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	txs, err := a.service.ListTransactionsByDate(c.Request.Context(), filter)
	if err != nil {
		a.fail(c, err)
		return
	}

	rows := make([]transactionCSVRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, transactionCSVRow{
			ID:          tx.ID,
			OrderID:     tx.OrderID,
			Date:        tx.Date,
			Status:      tx.Status,
			RefNumber:   tx.RefNumber,
			Customer:    tx.Customer.ID,
			Items:       len(tx.Items),
			Subtotal:    tx.Subtotal.StringFixed(2),
			Discount:    tx.Discount.StringFixed(2),
			Tax:         tx.Tax.StringFixed(2),
			Total:       tx.Total.StringFixed(2),
			Paid:        tx.Paid.StringFixed(2),
			Change:      tx.Change.StringFixed(2),
			PaymentType: tx.PaymentType,
			Till:        tx.Till,
			UserID:      tx.UserID,
			User:        tx.User,
		})
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Status(http.StatusOK)
	if err := gocsv.Marshal(rows, c.Writer); err != nil {
		a.logger.Sugar().Errorf("write transactions csv: %v", err)
	}
}

func (a *API) handleGetTransaction(c *gin.Context) {
	tx, err := a.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tx)
}

func (a *API) handleCreateTransaction(c *gin.Context) {
	var tx domain.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	resp, err := a.service.CreateTransaction(c.Request.Context(), tx)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

func (a *API) handleUpdateTransaction(c *gin.Context) {
	var tx domain.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := a.service.UpdateTransaction(c.Request.Context(), tx)
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, updated)
}

func (a *API) handleDeleteTransaction(c *gin.Context) {
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	req := domain.TransactionDeleteRequest{OrderID: cast.ToString(firstOf(raw, "orderId", "_id"))}

	if err := a.service.DeleteTransaction(c.Request.Context(), req.OrderID); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

// transactionFilterFrom reads start, end and the optional status, user and
// till query parameters. A user or till of 0 means "any".
func transactionFilterFrom(c *gin.Context) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
	if filter.Start == "" || filter.End == "" {
		return domain.TransactionFilter{}, errors.New("start and end are required")
	}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := domain.ToInt(raw)
		if err != nil {
			return domain.TransactionFilter{}, fmt.Errorf("invalid status %q", raw)
		}
		filter.Status = &status
	}

	var err error
	if filter.UserID, err = domain.ToInt64(c.Query("user")); err != nil {
		return domain.TransactionFilter{}, fmt.Errorf("invalid user %q", c.Query("user"))
	}
	if filter.Till, err = domain.ToInt64(c.Query("till")); err != nil {
		return domain.TransactionFilter{}, fmt.Errorf("invalid till %q", c.Query("till"))
	}
	return filter, nil
}
