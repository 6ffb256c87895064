// Package payments handles the Paymob transaction webhook that tops up
// profile vaults.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/MrAsnssr/Fraud/monitor"
)

// creditPacks maps paid amount in baisa to credits granted. Amounts
// outside the catalog grant nothing but still acknowledge the webhook.
var creditPacks = map[int64]int64{
	500:  500,
	2000: 2500,
	5000: 7500,
}

// ProfileCreditor is the slice of storage the webhook needs.
type ProfileCreditor interface {
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)
	AddCredits(ctx context.Context, profileID string, amount int64) error
}

type transaction struct {
	AmountCents          int64  `json:"amount_cents"`
	CreatedAt            string `json:"created_at"`
	Currency             string `json:"currency"`
	ErrorOccured         bool   `json:"error_occured"`
	HasParentTransaction bool   `json:"has_parent_transaction"`
	ID                   int64  `json:"id"`
	IntegrationID        int64  `json:"integration_id"`
	Is3DSecure           bool   `json:"is_3d_secure"`
	IsAuth               bool   `json:"is_auth"`
	IsCapture            bool   `json:"is_capture"`
	IsRefunded           bool   `json:"is_refunded"`
	IsStandalonePayment  bool   `json:"is_standalone_payment"`
	IsVoided             bool   `json:"is_voided"`
	Owner                int64  `json:"owner"`
	Pending              bool   `json:"pending"`
	Success              bool   `json:"success"`

	Order struct {
		ID           int64 `json:"id"`
		ShippingData struct {
			Email string `json:"email"`
		} `json:"shipping_data"`
	} `json:"order"`

	SourceData struct {
		Pan     string `json:"pan"`
		SubType string `json:"sub_type"`
		Type    string `json:"type"`
	} `json:"source_data"`
}

type webhookBody struct {
	Obj transaction `json:"obj"`
}

// signaturePayload concatenates the transaction fields in the exact
// order Paymob signs them. Booleans render as "true"/"false".
func signaturePayload(tx transaction) string {
	fields := []string{
		strconv.FormatInt(tx.AmountCents, 10),
		tx.CreatedAt,
		tx.Currency,
		strconv.FormatBool(tx.ErrorOccured),
		strconv.FormatBool(tx.HasParentTransaction),
		strconv.FormatInt(tx.ID, 10),
		strconv.FormatInt(tx.IntegrationID, 10),
		strconv.FormatBool(tx.Is3DSecure),
		strconv.FormatBool(tx.IsAuth),
		strconv.FormatBool(tx.IsCapture),
		strconv.FormatBool(tx.IsRefunded),
		strconv.FormatBool(tx.IsStandalonePayment),
		strconv.FormatBool(tx.IsVoided),
		strconv.FormatInt(tx.Order.ID, 10),
		strconv.FormatInt(tx.Owner, 10),
		strconv.FormatBool(tx.Pending),
		tx.SourceData.Pan,
		tx.SourceData.SubType,
		tx.SourceData.Type,
		strconv.FormatBool(tx.Success),
	}
	return strings.Join(fields, "")
}

func computeHMAC(secret string, tx transaction) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signaturePayload(tx)))
	return hex.EncodeToString(mac.Sum(nil))
}

type PaymobHandler struct {
	profiles   ProfileCreditor
	hmacSecret string
	metrics    *monitor.Metrics
	log        zerolog.Logger
}

func NewPaymobHandler(profiles ProfileCreditor, hmacSecret string, metrics *monitor.Metrics, log zerolog.Logger) *PaymobHandler {
	if hmacSecret == "" {
		log.Warn().Msg("paymob hmac secret unset, webhook signatures are not verified")
	}
	return &PaymobHandler{profiles: profiles, hmacSecret: hmacSecret, metrics: metrics, log: log}
}

func (h *PaymobHandler) Register(r gin.IRouter) {
	r.POST("/payments/paymob/webhook", h.WebhookHandler)
}

// WebhookHandler processes a Paymob transaction callback. Unknown
// amounts and unknown emails are acknowledged without crediting, so
// Paymob never retries a delivery we cannot use.
func (h *PaymobHandler) WebhookHandler(ctx *gin.Context) {
	body := webhookBody{}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, "bad-payload")
		return
	}

	signature := ctx.Query("hmac")
	if h.hmacSecret != "" && signature != "" {
		expected := computeHMAC(h.hmacSecret, body.Obj)
		if !hmac.Equal([]byte(expected), []byte(signature)) {
			h.log.Warn().Int64("tx", body.Obj.ID).Msg("paymob webhook signature mismatch")
			ctx.String(http.StatusUnauthorized, "invalid-signature")
			return
		}
	}

	if body.Obj.Success {
		h.credit(ctx.Request.Context(), body.Obj)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymobHandler) credit(ctx context.Context, tx transaction) {
	credits := creditPacks[tx.AmountCents]
	if credits == 0 {
		h.log.Warn().Int64("tx", tx.ID).Int64("amount", tx.AmountCents).Msg("paymob amount outside catalog")
		return
	}

	email := tx.Order.ShippingData.Email
	profile, err := h.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		h.log.Warn().Err(err).Int64("tx", tx.ID).Msg("paymob payer has no profile")
		return
	}

	if err := h.profiles.AddCredits(ctx, profile.Id, credits); err != nil {
		h.log.Error().Err(err).Int64("tx", tx.ID).Str("profile", profile.Id).Msg("paymob credit grant failed")
		return
	}

	h.metrics.WebhookCredits.Add(float64(credits))
	h.log.Info().Int64("tx", tx.ID).Str("profile", profile.Id).Int64("credits", credits).Msg("vault topped up")
}
