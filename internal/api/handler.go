package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/database/repository"
	"github.com/patogeno/family-budget-app/internal/service"
)

// Handler exposes the core operations over HTTP.
type Handler struct {
	Importer    *service.Importer
	Reviewer    *service.Reviewer
	Sweeper     *service.Sweeper
	Adjuster    *service.Adjuster
	Maintenance *service.MaintenanceService

	Accounts        *repository.AccountRepo
	Groups          *repository.BudgetGroupRepo
	Types           *repository.TransactionTypeRepo
	Patterns        *repository.PatternRepo
	Transactions    *repository.TransactionRepo
	Initializations *repository.BudgetInitializationRepo
	Adjustments     *repository.BudgetAdjustmentRepo

	FormatLabels func() map[string]string
	Log          *zap.Logger
}

// RegisterRoutes mounts everything under the given router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/import/transactions", h.importTransactions).Methods(http.MethodPost)
	r.HandleFunc("/import/patterns", h.importPatterns).Methods(http.MethodPost)
	r.HandleFunc("/bank-formats", h.bankFormats).Methods(http.MethodGet)

	r.HandleFunc("/transactions", h.listTransactions).Methods(http.MethodGet)
	r.HandleFunc("/transactions/pending-review", h.pendingReview).Methods(http.MethodGet)
	r.HandleFunc("/transactions/adjustment", h.createAdjustment).Methods(http.MethodPost)
	r.HandleFunc("/transactions/bulk-confirm", h.bulkConfirm).Methods(http.MethodPost)
	r.HandleFunc("/transactions/redo-categorization", h.redoCategorization).Methods(http.MethodPost)
	r.HandleFunc("/transactions/{id}", h.modifyTransaction).Methods(http.MethodPatch)

	h.registerEntityRoutes(r)

	r.HandleFunc("/maintenance/reset", h.reset).Methods(http.MethodPost)
}

func (h *Handler) importTransactions(w http.ResponseWriter, r *http.Request) {
	file, err := formFile(r, "file")
	if err != nil {
		writeError(w, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}
	res, err := h.Importer.ImportTransactions(r.Context(), reader,
		r.FormValue("import_format"), r.FormValue("account_name"), r.FormValue("new_account_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, importResponse{
		Created:     res.Created,
		Skipped:     res.Skipped,
		NearMatches: toNearMatchDTOs(res.NearMatches),
	})
}

func (h *Handler) importPatterns(w http.ResponseWriter, r *http.Request) {
	file, err := formFile(r, "file")
	if err != nil {
		writeError(w, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}
	count, err := h.Importer.ImportPatterns(r.Context(), reader, r.FormValue("account_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": count})
}

func (h *Handler) bankFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.FormatLabels())
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perPage := intParam(q.Get("per_page"), 10)
	page := intParam(q.Get("page"), 1)

	f := repository.TransactionFilters{
		DateFrom:          q.Get("dateFrom"),
		DateTo:            q.Get("dateTo"),
		Description:       q.Get("description"),
		TransactionTypeID: q.Get("type"),
		BudgetGroupID:     q.Get("budget"),
		AccountNameID:     q.Get("account"),
		ReviewStatus:      q.Get("review_status"),
		SortBy:            q.Get("sort_by"),
		SortDesc:          q.Get("sort_direction") != "asc",
		Page:              page,
		PerPage:           perPage,
	}

	txs, total, err := h.Transactions.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Transactions: toTransactionDTOs(txs),
		TotalPages:   totalPages,
		CurrentPage:  page,
		Total:        total,
	})
}

func (h *Handler) pendingReview(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Reviewer.PendingReview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

func (h *Handler) createAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid amount %q", req.Amount)})
		return
	}
	pair, err := h.Adjuster.CreateAdjustmentTransaction(r.Context(), service.AdjustmentRequest{
		DateFrom:          req.DateFrom,
		DateTo:            req.DateTo,
		Amount:            amount,
		BudgetGroupID:     req.BudgetGroupID,
		TransactionTypeID: req.TransactionTypeID,
		Description:       req.Description,
		Comments:          req.Comments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTOs(pair))
}

func (h *Handler) modifyTransaction(w http.ResponseWriter, r *http.Request) {
	var req modifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	t, err := h.Reviewer.Modify(r.Context(), mux.Vars(r)["id"], service.ModifyRequest{
		TransactionTypeID: req.TransactionTypeID,
		BudgetGroupID:     req.BudgetGroupID,
		Comments:          req.Comments,
		ReviewStatus:      req.ReviewStatus,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(*t))
}

func (h *Handler) bulkConfirm(w http.ResponseWriter, r *http.Request) {
	var req bulkConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	if err := h.Reviewer.BulkConfirm(r.Context(), req.TransactionIDs, req.CommentsMap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transactions confirmed"})
}

func (h *Handler) redoCategorization(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Sweeper.RedoCategorization(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Maintenance.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "data reset"})
}

// formFile pulls a multipart upload, translating absence into the service's
// missing-file error.
func formFile(r *http.Request, field string) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, service.ErrMissingFile
	}
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, service.ErrMissingFile
	}
	return f, nil
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
