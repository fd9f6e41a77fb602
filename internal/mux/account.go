package mux

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dealmein-server/pkg/model"
)

var errSignupThrottled = model.UserError("please wait before creating another player")

type signupPayload struct {
	model.Signup
	Token string `json:"token"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// privateAccount carries the email, only the account itself and admins see it
type privateAccount struct {
	*model.Account
	Email string `json:"email"`
}

func newPrivateAccount(account *model.Account) privateAccount {
	return privateAccount{Account: account, Email: account.Email}
}

type loginResponse struct {
	JWT     string         `json:"jwt"`
	Account privateAccount `json:"player"`
}

// POST /player
func (m *Mux) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload signupPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if err := m.recaptcha.Verify(payload.Token); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		signup := payload.Signup
		signup.RemoteAddr = remoteAddr(r)
		if err := signup.Validate(); err != nil {
			writeError(w, err)
			return
		}

		if err := m.throttleSignup(r.Context(), signup.RemoteAddr); err != nil {
			writeError(w, err)
			return
		}

		account, err := m.accounts.Create(r.Context(), signup)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newPrivateAccount(account))
	}
}

func (m *Mux) throttleSignup(ctx context.Context, addr string) error {
	if m.config.signupDelay <= 0 {
		return nil
	}

	last, err := m.accounts.LastSignupFrom(ctx, addr)
	if err != nil {
		return err
	}

	if time.Since(last) < m.config.signupDelay {
		return errSignupThrottled
	}

	return nil
}

// POST /player/auth
func (m *Mux) logIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		account, err := m.accounts.Authenticate(r.Context(), payload.Email, payload.Password)
		if errors.Is(err, model.ErrBadCredentials) || errors.Is(err, model.ErrAccountBlocked) {
			writeJSONError(w, http.StatusUnauthorized, err)
			return
		} else if err != nil {
			writeError(w, err)
			return
		}

		token, err := m.signer.Sign(account.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			JWT:     token,
			Account: newPrivateAccount(account),
		})
	}
}

// GET /player, admin only
func (m *Mux) listAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		accounts, err := m.accounts.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		page := make([]privateAccount, len(accounts))
		for i, account := range accounts {
			page[i] = newPrivateAccount(account)
		}

		writeJSON(w, http.StatusOK, page)
	}
}
