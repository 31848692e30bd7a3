package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

// Ledger is the part of the service the rollup reads from and writes to.
type Ledger interface {
	ListTransactionsByDate(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	CreateStatistic(ctx context.Context, stat domain.Statistic) (domain.Statistic, error)
	UpdateStatistic(ctx context.Context, stat domain.Statistic) (domain.Statistic, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const dayLayout = "2006-01-02"

// Rollup writes one daily sales statistic from the finalized transactions of
// a day.
type Rollup struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

func NewRollup(ledger Ledger, logger *zap.Logger) *Rollup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rollup{ledger: ledger, logger: logger, now: time.Now}
}

func StatisticID(day time.Time) string {
	return "sales-" + day.UTC().Format(dayLayout)
}

// RunDay totals the finalized sales of the UTC day containing day and stores
// them under a stable id, replacing an earlier rollup of the same day.
func (r *Rollup) RunDay(ctx context.Context, day time.Time) (domain.Statistic, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	finalized := domain.TxStatusFinalized
	txs, err := r.ledger.ListTransactionsByDate(ctx, domain.TransactionFilter{
		Start:  start.Format("2006-01-02T15:04:05.000Z"),
		End:    end.Format("2006-01-02T15:04:05.000Z"),
		Status: &finalized,
	})
	if err != nil {
		return domain.Statistic{}, fmt.Errorf("load sales of %s: %w", start.Format(dayLayout), err)
	}

	total := decimal.Zero
	tickets := make(stats.Float64Data, 0, len(txs))
	for _, tx := range txs {
		total = total.Add(tx.Total)
		tickets = append(tickets, tx.Total.InexactFloat64())
	}

	var average float64
	if len(tickets) > 0 {
		if average, err = stats.Mean(tickets); err != nil {
			return domain.Statistic{}, err
		}
		average, _ = stats.Round(average, 2)
	}

	stat := domain.Statistic{
		ID:          StatisticID(start),
		Date:        start.Format("2006-01-02T15:04:05.000Z"),
		Value:       total,
		Description: fmt.Sprintf("daily sales: %d transactions, average ticket %.2f", len(tickets), average),
	}

	saved, err := r.ledger.UpdateStatistic(ctx, stat)
	if service.IsNotFound(err) {
		saved, err = r.ledger.CreateStatistic(ctx, stat)
	}
	if err != nil {
		return domain.Statistic{}, fmt.Errorf("save rollup %s: %w", stat.ID, err)
	}

	r.logger.Info("daily sales rolled up",
		zap.String("statistic_id", saved.ID),
		zap.Int("transactions", len(tickets)),
		zap.String("total", total.String()),
	)
	return saved, nil
}

// Run rolls up the previous day on every tick of schedule until ctx ends.
func (r *Rollup) Run(ctx context.Context, schedule string) error {
	sched := cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser))
	_, err := sched.AddFunc(schedule, func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("rollup panicked", zap.Any("panic", rec))
			}
		}()
		if _, err := r.RunDay(ctx, r.now().UTC().AddDate(0, 0, -1)); err != nil {
			r.logger.Error("rollup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid rollup schedule %q: %w", schedule, err)
	}

	sched.Start()
	r.logger.Info("rollup scheduler started", zap.String("schedule", schedule))
	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}
