package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/notify"
	"github.com/eksporyuk/commission/internal/payout"
)

type staticAffiliates map[string]*affiliate.Affiliate

func (s staticAffiliates) Get(_ context.Context, ref string) (*affiliate.Affiliate, error) {
	a, ok := s[ref]
	if !ok {
		return nil, affiliate.ErrNotFound
	}

	return a, nil
}

var affiliates = staticAffiliates{
	"RINA":   {Ref: "RINA", Name: "Rina", Email: "rina@example.com", Status: affiliate.StatusActive},
	"NOMAIL": {Ref: "NOMAIL", Name: "No Mail", Status: affiliate.StatusActive},
}

func TestConversionRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notify.NewMockMailer(ctrl)

	var got notify.Message

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg notify.Message) error {
		got = msg
		return nil
	})

	svc := notify.NewService(mailer, affiliates, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	svc.ConversionRecorded(ctx, &conversion.Conversion{SaleRef: "INV-1", AffiliateRef: "RINA", Amount: 250000})
	cancel()
	svc.Close()

	assert.Equal(t, "rina@example.com", got.ToEmail)
	assert.Equal(t, "Komisi baru Rp 250.000", got.Subject)
	assert.Contains(t, got.Text, "INV-1")
}

func TestPayoutSettled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notify.NewMockMailer(ctrl)

	var got notify.Message

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg notify.Message) error {
		got = msg
		return nil
	})

	svc := notify.NewService(mailer, affiliates, slog.Default())
	svc.PayoutSettled(context.Background(), &payout.Receipt{
		ID:            uuid.New(),
		AffiliateRef:  "RINA",
		ConversionIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Total:         1550000,
	})
	svc.Close()

	assert.Equal(t, "Pembayaran komisi Rp 1.550.000", got.Subject)
	assert.Contains(t, got.Text, "2 penjualan")
}

func TestSendFailureIsLoggedOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notify.NewMockMailer(ctrl)
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("sendgrid returned status 500"))

	var buf bytes.Buffer

	svc := notify.NewService(mailer, affiliates, slog.New(slog.NewTextHandler(&buf, nil)))
	svc.ConversionRecorded(context.Background(), &conversion.Conversion{SaleRef: "INV-2", AffiliateRef: "RINA", Amount: 1})
	svc.Close()

	assert.Contains(t, buf.String(), "notification failed")
}

func TestSkipsWithoutRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notify.NewMockMailer(ctrl)

	var buf bytes.Buffer

	svc := notify.NewService(mailer, affiliates, slog.New(slog.NewTextHandler(&buf, nil)))
	svc.ConversionRecorded(context.Background(), &conversion.Conversion{AffiliateRef: "NOMAIL"})
	svc.ConversionRecorded(context.Background(), &conversion.Conversion{AffiliateRef: "GHOST"})
	svc.Close()

	assert.Contains(t, buf.String(), "notification skipped")
}
