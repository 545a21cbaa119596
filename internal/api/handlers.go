// Package api exposes the services over HTTP: chi routing, JSON DTOs
// and the error-to-status mapping.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emel-04/FlatmateHarmony/internal/auth"
	"github.com/emel-04/FlatmateHarmony/internal/chat"
	"github.com/emel-04/FlatmateHarmony/internal/household"
	"github.com/emel-04/FlatmateHarmony/internal/ledger"
	"github.com/emel-04/FlatmateHarmony/internal/middleware"
	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// Handler holds the services the HTTP surface delegates to.
type Handler struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	households    *household.Service
	ledger        *ledger.Service
	chat          *chat.Service
	chatWS        http.Handler
	users         storage.UserStore
}

// NewHandler wires the services into an HTTP handler set.
func NewHandler(
	authenticator auth.Authenticator,
	tokens *auth.JWTManager,
	households *household.Service,
	ledgerSvc *ledger.Service,
	chatSvc *chat.Service,
	chatWS http.Handler,
	users storage.UserStore,
) *Handler {
	return &Handler{
		authenticator: authenticator,
		tokens:        tokens,
		households:    households,
		ledger:        ledgerSvc,
		chat:          chatSvc,
		chatWS:        chatWS,
		users:         users,
	}
}

// Auth.

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

// Households.

func (h *Handler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	ownerName := req.OwnerName
	if ownerName == "" {
		if user, err := h.users.GetUserByID(r.Context(), userID); err == nil && user != nil {
			ownerName = user.DisplayName
		}
	}

	created, err := h.households.Create(r.Context(), userID, ownerName, req.Address, req.Rent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHouseholdResponse(created))
}

func (h *Handler) JoinHousehold(w http.ResponseWriter, r *http.Request) {
	var req joinHouseholdRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	joined, member, err := h.households.Join(r.Context(), req.HomeCode, middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{
		Household: toHouseholdResponse(joined),
		Member:    toMemberResponse(*member),
	})
}

func (h *Handler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	got, err := h.households.Get(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdResponse(got))
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.households.Members(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	member, err := h.households.AddMember(r.Context(), chi.URLParam(r, "householdID"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.households.RemoveMember(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Finance.

// monthParams parses {year}/{month} path segments.
func monthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year")
	}
	m, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, time.Month(m), nil
}

func (h *Handler) MonthSnapshot(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap, err := h.ledger.MonthSnapshot(r.Context(), chi.URLParam(r, "householdID"), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	txs, err := h.ledger.ListTransactions(r.Context(), chi.URLParam(r, "householdID"), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id, err := h.ledger.RecordTransaction(r.Context(), chi.URLParam(r, "householdID"),
		req.Description, req.Amount, req.PayerID, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	err := h.ledger.UpdateTransaction(r.Context(), chi.URLParam(r, "householdID"),
		chi.URLParam(r, "transactionID"), req.Description, req.Amount, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := h.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "transactionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.ledger.ConfirmPayment(r.Context(), chi.URLParam(r, "householdID"),
		models.Transfer{From: req.From, To: req.To, Amount: req.Amount})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// Chores and shopping.

func (h *Handler) ListChores(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.households.Assignments(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChoreAssignmentResponses(assignments))
}

func (h *Handler) ShuffleChores(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.households.ShuffleToday(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChoreAssignmentResponses(assignments))
}

func (h *Handler) ChoreHistory(w http.ResponseWriter, r *http.Request) {
	days, err := h.households.History(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]choreDayResponse, len(days))
	for i, d := range days {
		out[i] = toChoreDayResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListShopping(w http.ResponseWriter, r *http.Request) {
	items, err := h.households.ShoppingList(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]shoppingItemResponse, len(items))
	for i, it := range items {
		out[i] = toShoppingItemResponse(it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req addShoppingItemRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.households.AddShoppingItem(r.Context(), chi.URLParam(r, "householdID"),
		req.Name, req.Note, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShoppingItemResponse(*item))
}

func (h *Handler) ToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	err := h.households.ToggleShoppingItem(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	err := h.households.DeleteShoppingItem(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chat.

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chat.History(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	senderName := userID
	if user, err := h.users.GetUserByID(r.Context(), userID); err == nil && user != nil {
		senderName = user.DisplayName
	}

	msg, err := h.chat.Send(r.Context(), chi.URLParam(r, "householdID"), userID, senderName, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageResponse(*msg))
}

func (h *Handler) ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	h.chatWS.ServeHTTP(w, r)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
