package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// Configuration entity CRUD. These are thin wrappers over the repositories;
// all interesting behavior lives in the service layer.

func (h *Handler) registerEntityRoutes(r *mux.Router) {
	r.HandleFunc("/accounts", h.listAccounts).Methods(http.MethodGet)
	r.HandleFunc("/accounts", h.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id}", h.deleteAccount).Methods(http.MethodDelete)

	r.HandleFunc("/budget-groups", h.listGroups).Methods(http.MethodGet)
	r.HandleFunc("/budget-groups", h.createGroup).Methods(http.MethodPost)
	r.HandleFunc("/budget-groups/{id}", h.updateGroup).Methods(http.MethodPut)
	r.HandleFunc("/budget-groups/{id}", h.deleteGroup).Methods(http.MethodDelete)

	r.HandleFunc("/transaction-types", h.listTypes).Methods(http.MethodGet)
	r.HandleFunc("/transaction-types", h.createType).Methods(http.MethodPost)
	r.HandleFunc("/transaction-types/{id}", h.updateType).Methods(http.MethodPut)
	r.HandleFunc("/transaction-types/{id}", h.deleteType).Methods(http.MethodDelete)

	r.HandleFunc("/patterns", h.listPatterns).Methods(http.MethodGet)
	r.HandleFunc("/patterns", h.upsertPattern).Methods(http.MethodPost)
	r.HandleFunc("/patterns/{id}", h.deletePattern).Methods(http.MethodDelete)

	r.HandleFunc("/budget-initializations", h.listInitializations).Methods(http.MethodGet)
	r.HandleFunc("/budget-initializations", h.createInitialization).Methods(http.MethodPost)
	r.HandleFunc("/budget-initializations/{id}", h.deleteInitialization).Methods(http.MethodDelete)

	r.HandleFunc("/budget-adjustments", h.listAdjustments).Methods(http.MethodGet)
	r.HandleFunc("/budget-adjustments", h.createAdjustmentRecord).Methods(http.MethodPost)
	r.HandleFunc("/budget-adjustments/{id}", h.deleteAdjustmentRecord).Methods(http.MethodDelete)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	type accountDTO struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountDTO{ID: a.ID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	a, err := h.Accounts.GetOrCreate(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID, "name": a.Name})
}

// deleteAccount fails while transactions still reference the account; the
// RESTRICT foreign key surfaces as a constraint error.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "account is referenced by transactions: " + err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	g := repository.BudgetGroup{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	if err := h.Groups.Create(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Groups.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "budget group not found"})
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	g := repository.BudgetGroup{ID: existing.ID, Name: req.Name, Description: req.Description}
	if err := h.Groups.Update(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.Groups.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Types.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) createType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                   string  `json:"name"`
		Description            string  `json:"description"`
		DefaultBudgetGroupID   *string `json:"default_budget_group"`
		AmountThreshold        *string `json:"amount_threshold"`
		ThresholdBudgetGroupID *string `json:"threshold_budget_group"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	t := repository.TransactionType{
		ID:                     uuid.NewString(),
		Name:                   req.Name,
		Description:            req.Description,
		DefaultBudgetGroupID:   req.DefaultBudgetGroupID,
		ThresholdBudgetGroupID: req.ThresholdBudgetGroupID,
	}
	if req.AmountThreshold != nil {
		d, err := decimal.NewFromString(*req.AmountThreshold)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount_threshold"})
			return
		}
		t.AmountThreshold = &d
	}
	if err := h.Types.Create(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) updateType(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Types.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "transaction type not found"})
		return
	}
	var req struct {
		Name                   string  `json:"name"`
		Description            string  `json:"description"`
		DefaultBudgetGroupID   *string `json:"default_budget_group"`
		AmountThreshold        *string `json:"amount_threshold"`
		ThresholdBudgetGroupID *string `json:"threshold_budget_group"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	t := repository.TransactionType{
		ID:                     existing.ID,
		Name:                   req.Name,
		Description:            req.Description,
		DefaultBudgetGroupID:   req.DefaultBudgetGroupID,
		ThresholdBudgetGroupID: req.ThresholdBudgetGroupID,
	}
	if req.AmountThreshold != nil {
		d, err := decimal.NewFromString(*req.AmountThreshold)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount_threshold"})
			return
		}
		t.AmountThreshold = &d
	}
	if err := h.Types.Update(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) deleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.Types.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.Patterns.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

func (h *Handler) upsertPattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegexPattern      string  `json:"regex_pattern"`
		TransactionTypeID string  `json:"transaction_type"`
		AccountNameID     *string `json:"account_name"`
		Comments          *string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RegexPattern == "" || req.TransactionTypeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "regex_pattern and transaction_type are required"})
		return
	}
	p := repository.TransactionPattern{
		RegexPattern:      req.RegexPattern,
		TransactionTypeID: req.TransactionTypeID,
		AccountNameID:     req.AccountNameID,
		Comments:          req.Comments,
	}
	if err := h.Patterns.Upsert(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "pattern saved"})
}

func (h *Handler) deletePattern(w http.ResponseWriter, r *http.Request) {
	if err := h.Patterns.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listInitializations(w http.ResponseWriter, r *http.Request) {
	items, err := h.Initializations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createInitialization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BudgetGroupID string `json:"budget_group"`
		Amount        string `json:"amount"`
		Date          string `json:"date"`
		Description   string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BudgetGroupID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "budget_group is required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}
	b := repository.BudgetInitialization{
		ID:            uuid.NewString(),
		BudgetGroupID: req.BudgetGroupID,
		Amount:        amount,
		Date:          req.Date,
		Description:   req.Description,
	}
	if err := h.Initializations.Create(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) deleteInitialization(w http.ResponseWriter, r *http.Request) {
	if err := h.Initializations.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAdjustments(w http.ResponseWriter, r *http.Request) {
	items, err := h.Adjustments.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createAdjustmentRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromBudgetGroupID string `json:"from_budget_group"`
		ToBudgetGroupID   string `json:"to_budget_group"`
		Amount            string `json:"amount"`
		Date              string `json:"date"`
		Description       string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FromBudgetGroupID == "" || req.ToBudgetGroupID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from_budget_group and to_budget_group are required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}
	b := repository.BudgetAdjustment{
		ID:                uuid.NewString(),
		FromBudgetGroupID: req.FromBudgetGroupID,
		ToBudgetGroupID:   req.ToBudgetGroupID,
		Amount:            amount,
		Date:              req.Date,
		Description:       req.Description,
	}
	if err := h.Adjustments.Create(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) deleteAdjustmentRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.Adjustments.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
