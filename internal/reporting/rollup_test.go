package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
	"storepos/backend/internal/store/memory"
	"storepos/backend/internal/xid"
)

func TestRunDaySumsFinalizedSalesAndReplacesEarlierRollup(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	svc := service.New(repo, xid.NewCounterFrom(0), zaptest.NewLogger(t))

	fixtures := []domain.Transaction{
		{ID: "a", Date: "2024-03-01T08:00:00.000Z", Status: 1, Total: decimal.RequireFromString("10.50")},
		{ID: "b", Date: "2024-03-01T23:59:59.999Z", Status: 1, Total: decimal.RequireFromString("4.50")},
		{ID: "held", Date: "2024-03-01T12:00:00.000Z", Status: 0, RefNumber: "R1", Total: decimal.RequireFromString("99")},
		{ID: "next-day", Date: "2024-03-02T00:00:00.000Z", Status: 1, Total: decimal.RequireFromString("7")},
	}
	for _, tx := range fixtures {
		require.NoError(t, repo.CreateTransaction(ctx, tx))
	}

	rollup := NewRollup(svc, zaptest.NewLogger(t))
	day := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	stat, err := rollup.RunDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "sales-2024-03-01", stat.ID)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", stat.Date)
	assert.True(t, stat.Value.Equal(decimal.NewFromInt(15)), "got %s", stat.Value)
	assert.Contains(t, stat.Description, "2 transactions")
	assert.Contains(t, stat.Description, "7.50")

	require.NoError(t, repo.CreateTransaction(ctx, domain.Transaction{
		ID: "late", Date: "2024-03-01T20:00:00.000Z", Status: 1, Total: decimal.NewFromInt(5),
	}))
	_, err = rollup.RunDay(ctx, day)
	require.NoError(t, err)

	all, err := svc.ListStatistics(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Value.Equal(decimal.NewFromInt(20)))
}

func TestRunDayWithoutSales(t *testing.T) {
	svc := service.New(memory.New(), nil, nil)
	rollup := NewRollup(svc, nil)

	stat, err := rollup.RunDay(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, stat.Value.IsZero())
	assert.Contains(t, stat.Description, "0 transactions")
}

func TestRunRejectsBadSchedule(t *testing.T) {
	rollup := NewRollup(service.New(memory.New(), nil, nil), nil)
	err := rollup.Run(context.Background(), "every tuesday")
	assert.Error(t, err)
}
