package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/middleware"
)

const importTimeout = 2 * time.Minute

// ExchangeImportJob refreshes the rate table of the active provider.
type ExchangeImportJob struct {
	importer portssvc.ExchangeImportSvc
	log      *slog.Logger
}

// NewExchangeImportJob creates the import job.
func NewExchangeImportJob(importer portssvc.ExchangeImportSvc, log *slog.Logger) *ExchangeImportJob {
	return &ExchangeImportJob{importer: importer, log: log.With(slog.String("job", "exchange_import"))}
}

func (j *ExchangeImportJob) Name() string { return "exchange_import" }

func (j *ExchangeImportJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	rows, err := j.importer.ImportActive(middleware.WithLogger(ctx, j.log))
	if err != nil {
		return err
	}
	j.log.Info("Exchange rates refreshed", slog.Int("rows", rows))
	return nil
}
