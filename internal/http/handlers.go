package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"museumrewards/internal/auth"
	"museumrewards/internal/benefits"
	"museumrewards/internal/coins"
	"museumrewards/internal/models"
	"museumrewards/internal/repo"
	"museumrewards/internal/service"
	"museumrewards/internal/theme"
)

const maxBodyBytes = 1 << 20

// Catalog item ids are short slugs or numeric ids.
var itemIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserName     string `json:"user_name"`
}

type entityResponse struct {
	ID string `json:"id"`
}

type balanceResponse struct {
	Coins int `json:"coins"`
}

type rewardsResponse struct {
	DailyLogin int `json:"daily_login"`
	FirstView  int `json:"first_view"`
}

type purchaseRequest struct {
	PackID string `json:"pack_id"`
}

type resetResponse struct {
	Success bool `json:"success"`
}

type themeRequest struct {
	Selection string `json:"selection"`
}

type themeResponse struct {
	Selection theme.Selection `json:"selection"`
}

type paletteResponse struct {
	Scheme    theme.Scheme    `json:"scheme"`
	Selection theme.Selection `json:"selection"`
	Palette   models.Palette  `json:"palette"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, err := a.Service.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name and password required")
		case errors.Is(err, repo.ErrUserExists):
			writeError(w, http.StatusConflict, "USER_EXISTS", "User already exists")
		default:
			a.internalError(w, err, "register", "Registration failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, entityResponse{ID: userID})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	accessToken, refreshToken, err := a.Service.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		a.internalError(w, err, "login", "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: accessToken, RefreshToken: refreshToken, UserName: strings.TrimSpace(req.Name)})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := a.Service.Logout(r.Context(), userID); err != nil {
		a.internalError(w, err, "logout", "Logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
		return
	}
	id, name, err := a.Service.Repo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		a.internalError(w, err, "load user", "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "name": name})
}

func (a *API) handleBalance(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Coins: acc.Ledger.Balance(r.Context())})
}

func (a *API) handleDailyLogin(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.Ledger.CheckDailyLogin(r.Context()))
}

func (a *API) handleRewardRules(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	rules := acc.Ledger.Rewards()
	writeJSON(w, http.StatusOK, rewardsResponse{DailyLogin: rules.DailyLogin, FirstView: rules.FirstView})
}

func (a *API) handleListPacks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, coins.Packs())
}

func (a *API) handlePurchase(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	var req purchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := acc.Ledger.Purchase(r.Context(), req.PackID)
	if err != nil {
		writeError(w, http.StatusNotFound, "PACK_NOT_FOUND", "Unknown coin pack")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleViewItem(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "id")
	if !itemIDPattern.MatchString(itemID) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}
	writeJSON(w, http.StatusOK, acc.Ledger.ViewItem(r.Context(), itemID))
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.Ledger.Stats(r.Context()))
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Success: acc.Ledger.ResetAll(r.Context())})
}

func (a *API) handleListBenefits(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.Benefits.States(r.Context()))
}

func (a *API) handleUnlockedBenefits(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.Benefits.Summary(r.Context()))
}

// handleRedeem answers 200 for rejected redemptions too; the body carries
// success=false and the reason.
func (a *API) handleRedeem(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	benefit, found := benefits.Lookup(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "BENEFIT_NOT_FOUND", "Benefit not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.Redeemer.Redeem(r.Context(), benefit))
}

func (a *API) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Selection: acc.Theme.Active(r.Context())})
}

func (a *API) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	var req themeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sel := theme.Selection(req.Selection)
	if sel != theme.SelectionSystem && sel != theme.SelectionNight {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Selection must be system or night")
		return
	}
	if sel == theme.SelectionNight && !a.nightThemeUnlocked(r, acc) {
		writeError(w, http.StatusForbidden, "BENEFIT_LOCKED", "Night theme is not unlocked")
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Selection: acc.Theme.Set(r.Context(), sel)})
}

func (a *API) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	if acc.Theme.Active(r.Context()) == theme.SelectionSystem && !a.nightThemeUnlocked(r, acc) {
		writeError(w, http.StatusForbidden, "BENEFIT_LOCKED", "Night theme is not unlocked")
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Selection: acc.Theme.Toggle(r.Context())})
}

func (a *API) handlePalette(w http.ResponseWriter, r *http.Request) {
	acc, ok := a.account(w, r)
	if !ok {
		return
	}
	scheme := theme.ParseScheme(r.URL.Query().Get("scheme"))
	sel := acc.Theme.Active(r.Context())
	writeJSON(w, http.StatusOK, paletteResponse{
		Scheme:    scheme,
		Selection: sel,
		Palette:   theme.ResolvePalette(scheme, sel),
	})
}

func (a *API) account(w http.ResponseWriter, r *http.Request) (*service.Account, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
		return nil, false
	}
	return a.Service.Account(userID), true
}

func (a *API) nightThemeUnlocked(r *http.Request, acc *service.Account) bool {
	night, _ := benefits.Lookup(benefits.NightThemeID)
	return acc.Benefits.IsUnlocked(r.Context(), night)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid payload")
		return false
	}
	return true
}
