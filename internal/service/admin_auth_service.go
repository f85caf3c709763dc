package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/critcoin/critcoin-api/internal/dto"
	"github.com/critcoin/critcoin-api/internal/models"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
	"github.com/critcoin/critcoin-api/pkg/walletsig"
)

// Rejection reasons reported in logs and the admin_auth_failures_total metric.
const (
	authReasonNotConfigured = "not_configured"
	authReasonDecode        = "url_decode"
	authReasonFormat        = "invalid_format"
	authReasonTimestamp     = "expired"
	authReasonSignature     = "bad_signature"
	authReasonSigner        = "wrong_signer"
	authReasonAction        = "wrong_action"
)

const defaultSignatureWindow = 5 * time.Minute

var errNotAnObject = errors.New("message is not a JSON object")

// AdminAuthConfig holds the read-only admin identity loaded at startup.
type AdminAuthConfig struct {
	AdminAddress    string
	SignatureWindow time.Duration
	Production      bool
}

// AdminAuthService proves a request was signed by the configured admin wallet.
// It keeps no sessions; every admin request carries its own signed message.
type AdminAuthService struct {
	cfg     AdminAuthConfig
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAdminAuthService constructs the authenticator.
func NewAdminAuthService(cfg AdminAuthConfig, metrics *MetricsService, logger *zap.Logger) *AdminAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SignatureWindow <= 0 {
		cfg.SignatureWindow = defaultSignatureWindow
	}
	cfg.AdminAddress = strings.TrimSpace(cfg.AdminAddress)
	return &AdminAuthService{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// AdminAddress returns the configured admin wallet.
func (s *AdminAuthService) AdminAddress() string {
	return s.cfg.AdminAddress
}

// Verify checks the proof against the configured admin address and requires
// the signed message to name action. In GET mode the message arrives
// URL-encoded and is decoded before parsing.
func (s *AdminAuthService) Verify(ctx context.Context, proof dto.AdminProof, mode models.AdminVerifyMode, action string) (*models.AdminIdentity, error) {
	if s.cfg.AdminAddress == "" {
		s.logger.Error("admin wallet address not configured; refusing admin request", zap.String("mode", string(mode)))
		s.metrics.RecordAdminAuthFailure(authReasonNotConfigured)
		return nil, appErrors.ErrAdminNotConfigured
	}

	signature := strings.TrimSpace(proof.Signature)
	if signature == "" && !s.cfg.Production && walletsig.SameAddress(proof.AdminWallet, s.cfg.AdminAddress) {
		s.logger.Warn("admin signature bypassed outside production",
			zap.String("mode", string(mode)),
			zap.String("admin_wallet", proof.AdminWallet),
		)
		return &models.AdminIdentity{Address: s.cfg.AdminAddress, Bypassed: true}, nil
	}

	raw := proof.Message
	if mode == models.AdminVerifyGET {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return nil, s.reject(mode, authReasonDecode, nil, proof.AdminWallet,
				appErrors.Clone(appErrors.ErrMessageFormat, "message is not valid URL-encoded text"))
		}
		raw = decoded
	}

	message, err := parseAdminMessage(raw)
	if err != nil {
		return nil, s.reject(mode, authReasonFormat, nil, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrMessageFormat, "message must be a JSON object"))
	}

	if !s.fresh(message) {
		return nil, s.reject(mode, authReasonTimestamp, message, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrMessageExpired, "message expired or timestamp is invalid; sign a new message"))
	}

	if signature == "" {
		return nil, s.reject(mode, authReasonSignature, message, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrInvalidSignature, "signature is required"))
	}
	signer, err := walletsig.Recover(raw, signature)
	if err != nil {
		return nil, s.reject(mode, authReasonSignature, message, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrInvalidSignature, "signature could not be verified"))
	}
	if !walletsig.SameAddress(signer.Hex(), s.cfg.AdminAddress) {
		return nil, s.reject(mode, authReasonSigner, message, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrInvalidSignature, "message was not signed by the admin wallet"))
	}
	if message.Action != action {
		return nil, s.reject(mode, authReasonAction, message, proof.AdminWallet,
			appErrors.Clone(appErrors.ErrMessageFormat, "message action must be "+action))
	}

	s.logger.Debug("admin signature verified",
		zap.String("mode", string(mode)),
		zap.String("action", message.Action),
	)
	return &models.AdminIdentity{Address: s.cfg.AdminAddress, Message: message}, nil
}

func (s *AdminAuthService) fresh(message *models.AdminMessage) bool {
	if message.Timestamp <= 0 {
		return false
	}
	age := s.now().UnixMilli() - message.Timestamp
	if age < 0 {
		age = -age
	}
	return age <= s.cfg.SignatureWindow.Milliseconds()
}

// reject logs and counts a failed verification. The signature itself is never logged.
func (s *AdminAuthService) reject(mode models.AdminVerifyMode, reason string, message *models.AdminMessage, claimedWallet string, err *appErrors.Error) error {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.String("mode", string(mode)),
		zap.String("claimed_wallet", claimedWallet),
	}
	if message != nil {
		fields = append(fields,
			zap.String("action", message.Action),
			zap.String("message_wallet", message.Wallet),
			zap.Int64("message_timestamp", message.Timestamp),
		)
	}
	s.logger.Warn("admin verification rejected", fields...)
	s.metrics.RecordAdminAuthFailure(reason)
	return err
}

// parseAdminMessage decodes the signed JSON object. A missing or non-integer
// timestamp is left as zero so the freshness check rejects it.
func parseAdminMessage(raw string) (*models.AdminMessage, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotAnObject
	}
	if decoder.More() {
		return nil, errNotAnObject
	}

	message := &models.AdminMessage{Extra: map[string]interface{}{}}
	for key, value := range fields {
		switch key {
		case "timestamp":
			if number, ok := value.(json.Number); ok {
				if ts, err := number.Int64(); err == nil {
					message.Timestamp = ts
				}
			}
		case "action":
			message.Action, _ = value.(string)
		case "wallet":
			message.Wallet, _ = value.(string)
		default:
			message.Extra[key] = value
		}
	}
	return message, nil
}
