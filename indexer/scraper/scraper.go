package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/config"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/types"
	"github.com/solcore-labs/corecollection/util"
)

type Scraper struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    indexertypes.RPCClient
	limiter   *util.Limiter
	programID solana.PublicKey
	pageSize  int

	mtx            sync.Mutex
	seq            int64
	lastScrapeTime time.Time
	scrapedCount   int64
}

func New(cfg *config.Config, logger *slog.Logger, client indexertypes.RPCClient, limiter *util.Limiter) *Scraper {
	return &Scraper{
		cfg:            cfg,
		logger:         logger.With("module", "scraper"),
		client:         client,
		limiter:        limiter,
		programID:      cfg.GetClusterConfig().GetProgramID(),
		pageSize:       types.SignaturePageSize,
		lastScrapeTime: time.Now(),
	}
}

// Run follows the program's signatures starting after cursor and sends every
// successful transaction to txChan in slot order. An empty cursor starts from
// the oldest signature the cluster still serves.
func (s *Scraper) Run(ctx context.Context, cursor string, txChan chan<- indexertypes.ScrapedTx) {
	go s.updateScrapeSpeedMetrics(ctx)

	until, err := parseCursor(cursor)
	if err != nil {
		s.logger.Warn("ignoring unparsable cursor", slog.String("cursor", cursor), slog.Any("error", err))
	}

	errCount := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scraper shutting down gracefully")
			return
		default:
		}

		next, err := s.Scrape(ctx, until, txChan)
		if err != nil {
			errCount++
			s.logger.Info("error while scraping signatures", slog.Int("err_count", errCount), slog.Any("error", err))
			if errCount >= types.MaxScrapeErrCount {
				s.logger.Error("scraping keeps failing", slog.Int("err_count", errCount), slog.Any("error", err))
				metrics.TrackError("scraper", "scrape_error")
				errCount = 0
			}
		} else {
			errCount = 0
			until = next
		}

		timer := time.NewTimer(s.cfg.GetPollingInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scraper shutting down gracefully")
			return
		case <-timer.C:
		}
	}
}

// Scrape sends every successful transaction newer than until to txChan and
// returns the newest signature seen, failed or not. Transactions are fetched
// before any is sent, so on error nothing was sent and until should be retried.
func (s *Scraper) Scrape(ctx context.Context, until solana.Signature, txChan chan<- indexertypes.ScrapedTx) (solana.Signature, error) {
	start := time.Now()
	sigs, err := s.listSignatures(ctx, until)
	if err != nil {
		return until, err
	}
	if len(sigs) == 0 {
		return until, nil
	}
	metrics.GetMetrics().Indexer.PendingSignatures.Set(float64(len(sigs)))

	txs, err := s.fetchTransactions(ctx, sigs)
	if err != nil {
		return until, err
	}
	metrics.GetMetrics().Indexer.ProcessingTime.WithLabelValues("scrape").Observe(time.Since(start).Seconds())

	for _, tx := range txs {
		if tx == nil {
			continue
		}
		s.mtx.Lock()
		tx.Seq = s.seq
		s.seq++
		s.mtx.Unlock()

		select {
		case <-ctx.Done():
			return until, ctx.Err()
		case txChan <- *tx:
		}
		s.logger.Debug("scraped transaction", slog.String("signature", tx.Signature), slog.Int64("slot", tx.Slot))
		s.trackScrapedTx()
	}
	metrics.GetMetrics().Indexer.PendingSignatures.Set(0)

	return sigs[len(sigs)-1].Signature, nil
}

// updateScrapeSpeedMetrics periodically updates scrape speed metrics
func (s *Scraper) updateScrapeSpeedMetrics(ctx context.Context) {
	ticker := time.NewTicker(types.ScrapeSpeedUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s.mtx.Lock()
		now := time.Now()
		elapsed := now.Sub(s.lastScrapeTime).Seconds()
		if elapsed > 0 {
			speed := float64(s.scrapedCount) / elapsed
			metrics.GetMetrics().Indexer.ProcessingSpeed.Set(speed)
		}
		s.scrapedCount = 0
		s.lastScrapeTime = now
		s.mtx.Unlock()
	}
}

// trackScrapedTx increments the scraped transaction counter
func (s *Scraper) trackScrapedTx() {
	s.mtx.Lock()
	s.scrapedCount++
	s.mtx.Unlock()
}

func parseCursor(cursor string) (solana.Signature, error) {
	if cursor == "" {
		return solana.Signature{}, nil
	}
	return solana.SignatureFromBase58(cursor)
}
