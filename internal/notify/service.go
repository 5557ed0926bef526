package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/payout"
)

const sendTimeout = 15 * time.Second

type Affiliates interface {
	Get(ctx context.Context, ref string) (*affiliate.Affiliate, error)
}

// Service emails affiliates about new commissions and payouts. Sends run in
// the background; a failed send is logged and never reported to the caller.
type Service struct {
	mailer     Mailer
	affiliates Affiliates
	log        *slog.Logger
	wg         sync.WaitGroup
}

func NewService(mailer Mailer, affiliates Affiliates, log *slog.Logger) *Service {
	return &Service{mailer: mailer, affiliates: affiliates, log: log}
}

func (s *Service) ConversionRecorded(ctx context.Context, c *conversion.Conversion) {
	s.dispatch(ctx, c.AffiliateRef, "conversion", func(a *affiliate.Affiliate) Message {
		amount := money.FormatRupiah(c.Amount)

		return Message{
			ToEmail: a.Email,
			ToName:  a.Name,
			Subject: "Komisi baru " + amount,
			Text: fmt.Sprintf("Halo %s,\n\nPenjualan %s menghasilkan komisi %s untuk Anda.\n",
				a.Name, c.SaleRef, amount),
			HTML: fmt.Sprintf("<p>Halo %s,</p><p>Penjualan <b>%s</b> menghasilkan komisi <b>%s</b> untuk Anda.</p>",
				a.Name, c.SaleRef, amount),
		}
	})
}

func (s *Service) PayoutSettled(ctx context.Context, r *payout.Receipt) {
	s.dispatch(ctx, r.AffiliateRef, "payout", func(a *affiliate.Affiliate) Message {
		total := money.FormatRupiah(r.Total)

		return Message{
			ToEmail: a.Email,
			ToName:  a.Name,
			Subject: "Pembayaran komisi " + total,
			Text: fmt.Sprintf("Halo %s,\n\nKomisi sebesar %s dari %d penjualan telah dibayarkan (ref %s).\n",
				a.Name, total, len(r.ConversionIDs), r.ID),
			HTML: fmt.Sprintf("<p>Halo %s,</p><p>Komisi sebesar <b>%s</b> dari %d penjualan telah dibayarkan.</p><p>Ref: %s</p>",
				a.Name, total, len(r.ConversionIDs), r.ID),
		}
	})
}

func (s *Service) dispatch(ctx context.Context, affiliateRef, kind string, build func(*affiliate.Affiliate) Message) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		a, err := s.affiliates.Get(ctx, affiliateRef)
		if err != nil {
			s.log.WarnContext(ctx, "notification skipped", "kind", kind, "affiliate", affiliateRef, "error", err)
			return
		}

		if a.Email == "" {
			return
		}

		if err := s.mailer.Send(ctx, build(a)); err != nil {
			s.log.ErrorContext(ctx, "notification failed", "kind", kind, "affiliate", affiliateRef, "error", err)
		}
	})
}

// Close waits for in-flight sends.
func (s *Service) Close() {
	s.wg.Wait()
}
