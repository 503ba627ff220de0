package enrollmenthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/maci-signup/api"
	"github.com/ruteri/maci-signup/enrollment"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/storage"
)

const maxRequestBodySize = 16 << 10

// Handler processes HTTP requests for the sign-up relayer.
type Handler struct {
	service *enrollment.Service
	log     *slog.Logger

	// Sign-ups share the relayer account nonce, so they are sent one at a time.
	signUpMu sync.Mutex
	signer   *bind.TransactOpts

	archive *storage.ReceiptArchive
}

// NewHandler creates a handler serving lookups through the service.
func NewHandler(service *enrollment.Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// WithSigner enables relaying sign-ups signed by auth.
func (h *Handler) WithSigner(auth *bind.TransactOpts) *Handler {
	h.signer = auth
	return h
}

// WithArchive enables archiving receipts of relayed sign-ups and serving them back.
func (h *Handler) WithArchive(archive *storage.ReceiptArchive) *Handler {
	h.archive = archive
	return h
}

// RegisterRoutes configures the router with the enabled endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	if h.signer != nil {
		r.Post("/api/signup/{contract_address}", h.HandleSignUp)
	}
	r.Get("/api/signup/{contract_address}/{pub_key}", h.HandleLookup)
	if h.archive != nil {
		r.Get("/api/receipts/{content_id}", h.HandleReceipt)
	}
}

// HandleSignUp relays a sign-up and responds once the transaction is mined.
//
// URL format: POST /api/signup/{contract_address}
//
// Request body: JSON-encoded api.SignUpRequest
//
// Response: JSON-encoded api.SignUpResponse, or api.ErrorResponse on failure
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	contractAddr, err := interfaces.NewContractAddressFromHex(r.PathValue("contract_address"))
	if err != nil {
		h.log.Debug("Invalid contract address", "err", err, "address", r.PathValue("contract_address"))
		writeError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid contract address format"})
		return
	}

	var req api.SignUpRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	h.signUpMu.Lock()
	result, err := h.service.SignUp(r.Context(), enrollment.SignUpArgs{
		ValidateArgs: enrollment.ValidateArgs{
			PublicKey:                   req.PubKey,
			Registry:                    contractAddr,
			SignUpGatekeeperData:        req.SignUpGatekeeperData,
			InitialVoiceCreditProxyData: req.InitialVoiceCreditProxyData,
		},
		Auth: h.signer,
	})
	h.signUpMu.Unlock()
	if err != nil {
		h.log.Info("Sign-up failed", "err", err, "contractAddress", contractAddr.String(), "hash", result.Hash)
		writeEnrollmentError(w, err, result.Hash)
		return
	}

	response := api.SignUpResponse{SignUpResult: result}
	if h.archive != nil {
		id, err := h.archive.Archive(r.Context(), interfaces.SignUpReceipt{
			Registry:   contractAddr.String(),
			PublicKey:  req.PubKey,
			StateIndex: result.StateIndex,
			Hash:       result.Hash,
			Timestamp:  time.Now().Unix(),
		})
		if err != nil {
			// Archiving is best effort, the sign-up is already on chain.
			h.log.Warn("Failed to archive receipt", "err", err, "hash", result.Hash)
		} else {
			response.ReceiptID = id.String()
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleLookup reports whether a public key is signed up to the registry.
//
// URL format: GET /api/signup/{contract_address}/{pub_key}
//
// Response: JSON-encoded interfaces.LookupResult, or api.ErrorResponse on failure
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	contractAddr, err := interfaces.NewContractAddressFromHex(r.PathValue("contract_address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid contract address format"})
		return
	}

	result, err := h.service.Lookup(r.Context(), r.PathValue("pub_key"), contractAddr)
	if err != nil {
		h.log.Info("Lookup failed", "err", err, "contractAddress", contractAddr.String())
		writeEnrollmentError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleReceipt serves an archived sign-up receipt.
//
// URL format: GET /api/receipts/{content_id}
//
// Response: JSON-encoded interfaces.SignUpReceipt
func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := interfaces.NewContentIDFromHex(r.PathValue("content_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid content id format"})
		return
	}

	receipt, err := h.archive.Receipt(r.Context(), id)
	if errors.Is(err, interfaces.ErrContentNotFound) {
		writeError(w, http.StatusNotFound, api.ErrorResponse{Error: "receipt not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to fetch receipt", "err", err, "contentID", id.String())
		writeError(w, http.StatusBadGateway, api.ErrorResponse{Error: "could not fetch receipt"})
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// StatusForKind maps an enrollment error kind to an HTTP status code.
func StatusForKind(kind enrollment.Kind) int {
	switch kind {
	case enrollment.KindInvalidPublicKey, enrollment.KindInvalidGatewayData, enrollment.KindInvalidVoiceCreditData:
		return http.StatusBadRequest
	case enrollment.KindRegistryNotFound:
		return http.StatusNotFound
	case enrollment.KindTransactionFailed, enrollment.KindReceiptUnavailable, enrollment.KindQueryFailed:
		return http.StatusBadGateway
	case enrollment.KindOutcomeUnknown:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeEnrollmentError(w http.ResponseWriter, err error, hash string) {
	kind := enrollment.KindOf(err)
	message := err.Error()
	var enrollmentErr *enrollment.Error
	if errors.As(err, &enrollmentErr) {
		// Causes carry RPC details and stay in the logs.
		message = enrollmentErr.Message
	}
	writeError(w, StatusForKind(kind), api.ErrorResponse{
		Error: message,
		Kind:  string(kind),
		Hash:  hash,
	})
}

func writeError(w http.ResponseWriter, status int, resp api.ErrorResponse) {
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
