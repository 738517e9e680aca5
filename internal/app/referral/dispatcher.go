package referral

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"printbank/internal/app/ports"
)

const (
	defaultBatchSize   = 100
	defaultConcurrency = 4
	defaultMaxAttempts = 5
)

var errAlreadyDelivered = errors.New("commission credit already delivered")

// Dispatcher delivers queued commission credits into referrer banks. Each
// credit is applied in its own transaction so one failing referrer never
// holds back the others.
type Dispatcher struct {
	TxManager   ports.TxManager
	Accounts    ports.AccountRepository
	Queue       ports.CommissionQueue
	Logger      *slog.Logger
	Now         func() time.Time
	BatchSize   int
	Concurrency int
	MaxAttempts int
}

type DispatchReport struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Dead      int `json:"dead"`
}

func (d Dispatcher) DeliverPending(ctx context.Context) (DispatchReport, error) {
	if d.TxManager == nil || d.Accounts == nil || d.Queue == nil {
		return DispatchReport{}, ErrInvalidRequest
	}
	credits, err := d.Queue.ListPending(ctx, orDefault(d.BatchSize, defaultBatchSize))
	if err != nil {
		return DispatchReport{}, err
	}

	var delivered, failed, dead atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(orDefault(d.Concurrency, defaultConcurrency))
	for _, credit := range credits {
		g.Go(func() error {
			err := d.deliver(gctx, credit)
			if err == nil {
				delivered.Add(1)
				return nil
			}
			if errors.Is(err, errAlreadyDelivered) {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			isDead := credit.Attempts+1 >= orDefault(d.MaxAttempts, defaultMaxAttempts)
			if markErr := d.Queue.MarkFailed(gctx, credit.ID, err.Error(), isDead); markErr != nil {
				return markErr
			}
			failed.Add(1)
			if isDead {
				dead.Add(1)
			}
			d.logger().Error("commission credit failed",
				"credit_id", credit.ID,
				"referrer_id", credit.ReferrerID,
				"referral_id", credit.ReferralID,
				"depth", credit.Depth,
				"attempt", credit.Attempts+1,
				"dead", isDead,
				"err", err,
			)
			return nil
		})
	}
	err = g.Wait()

	report := DispatchReport{
		Delivered: int(delivered.Load()),
		Failed:    int(failed.Load()),
		Dead:      int(dead.Load()),
	}
	if report.Delivered+report.Failed > 0 {
		d.logger().Info("commission dispatch", "delivered", report.Delivered, "failed", report.Failed, "dead", report.Dead)
	}
	return report, err
}

func (d Dispatcher) deliver(ctx context.Context, credit ports.CommissionCredit) error {
	return d.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := d.Queue.MarkDelivered(txCtx, credit.ID, d.now())
		if errors.Is(err, ports.ErrConflict) {
			return errAlreadyDelivered
		}
		if err != nil {
			return err
		}
		return d.Accounts.AddBankBalance(txCtx, credit.ReferrerID, credit.Amount)
	})
}

func (d Dispatcher) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

func (d Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
