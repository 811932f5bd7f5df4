// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/tenant-proxy/internal/directory"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
	"github.com/canonical/tenant-proxy/pkg/authentication"
	"github.com/canonical/tenant-proxy/pkg/invitations"
)

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/workspaces", a.createWorkspace)
	mux.Get("/api/v0/workspaces", a.listWorkspaces)
	mux.Get("/api/v0/workspaces/{id}", a.getWorkspace)
	mux.Delete("/api/v0/workspaces/{id}", a.deleteWorkspace)
	mux.Post("/api/v0/workspaces/{id}/switch", a.switchWorkspace)

	mux.Post("/api/v0/workspaces/{id}/members", a.addMember)
	mux.Patch("/api/v0/workspaces/{id}/members/{userID}", a.changeRole)
	mux.Delete("/api/v0/workspaces/{id}/members/{userID}", a.removeMember)

	mux.Post("/api/v0/workspaces/{id}/invitations", a.invite)
	mux.Get("/api/v0/workspaces/{id}/invitations", a.listInvitations)
	mux.Delete("/api/v0/workspaces/{id}/invitations/{invitationID}", a.revokeInvitation)
	mux.Post("/api/v0/invitations/accept", a.acceptInvitation)
}

type createWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=256"`
	Application string `json:"application,omitempty" validate:"omitempty,max=128"`
}

type memberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=admin member"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member"`
}

type acceptRequest struct {
	Token string `json:"token" validate:"required"`
}

func (a *API) createWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.createWorkspace")
	defer span.End()

	claims, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	var req createWorkspaceRequest
	if !a.decode(w, r, &req) {
		return
	}

	application := req.Application
	if application == "" {
		application = claims.Application
	}

	tenant, err := a.service.CreateWorkspace(ctx, req.Name, application, callerID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, tenant)
}

func (a *API) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.listWorkspaces")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	tenants, err := a.service.ListMyWorkspaces(ctx, callerID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{"workspaces": tenants})
}

func (a *API) getWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.getWorkspace")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	tenant, err := a.service.GetWorkspace(ctx, chi.URLParam(r, "id"), callerID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, tenant)
}

func (a *API) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.deleteWorkspace")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	if err := a.service.DeleteWorkspace(ctx, chi.URLParam(r, "id"), callerID); err != nil {
		a.serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) switchWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.switchWorkspace")
	defer span.End()

	claims, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	if err := a.service.SwitchWorkspace(ctx, callerID, chi.URLParam(r, "id"), claims.SessionID); err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{"active_workspace": chi.URLParam(r, "id")})
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.addMember")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if !a.decode(w, r, &req) {
		return
	}

	tenant, err := a.service.AddMember(ctx, chi.URLParam(r, "id"), callerID, req.UserID, req.Role)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, tenant)
}

func (a *API) changeRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.changeRole")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if !a.decode(w, r, &req) {
		return
	}

	tenant, err := a.service.ChangeRole(ctx, chi.URLParam(r, "id"), callerID, chi.URLParam(r, "userID"), req.Role)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, tenant)
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.removeMember")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	tenant, err := a.service.RemoveMember(ctx, chi.URLParam(r, "id"), callerID, chi.URLParam(r, "userID"))
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, tenant)
}

func (a *API) invite(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.invite")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	var req inviteRequest
	if !a.decode(w, r, &req) {
		return
	}

	token, invitation, err := a.service.Invite(ctx, chi.URLParam(r, "id"), callerID, req.Email, req.Role)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	// The only place the plaintext token is ever visible.
	a.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      token,
		"invitation": invitation,
	})
}

func (a *API) listInvitations(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.listInvitations")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	list, err := a.service.ListInvitations(ctx, chi.URLParam(r, "id"), callerID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{"invitations": list})
}

func (a *API) revokeInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.revokeInvitation")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	if err := a.service.RevokeInvitation(ctx, chi.URLParam(r, "id"), callerID, chi.URLParam(r, "invitationID")); err != nil {
		a.serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.acceptInvitation")
	defer span.End()

	_, callerID, ok := a.caller(w, r)
	if !ok {
		return
	}

	var req acceptRequest
	if !a.decode(w, r, &req) {
		return
	}

	invitation, err := a.service.AcceptInvitation(ctx, req.Token, callerID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, invitation)
}

// caller extracts the verified claims and derives the internal caller ID.
func (a *API) caller(w http.ResponseWriter, r *http.Request) (*types.Claims, string, bool) {
	claims, ok := authentication.GetClaims(r.Context())
	if !ok {
		a.errorResponse(w, http.StatusUnauthorized, "no verified claims")
		return nil, "", false
	}
	return claims, directory.HashSubject(claims.Subject), true
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := a.validate.Struct(req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (a *API) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invitations.ErrInvitationInvalid):
		a.errorResponse(w, http.StatusBadRequest, "invitation invalid")
	case errors.Is(err, ErrForbidden),
		errors.Is(err, directory.ErrNotMember),
		errors.Is(err, directory.ErrOwnerExists),
		errors.Is(err, directory.ErrOwnerImmutable),
		errors.Is(err, directory.ErrPersonalTenant),
		errors.Is(err, directory.ErrTenantDeleted):
		a.errorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, directory.ErrTenantActive):
		a.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, directory.ErrNotFound):
		a.errorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, directory.ErrUnavailable):
		a.errorResponse(w, http.StatusServiceUnavailable, "directory unavailable")
	case errors.Is(err, directory.ErrInvalidRole):
		a.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Errorf("workspace operation failed: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) errorResponse(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}
