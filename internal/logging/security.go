// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

// SecurityLogger emits audit events on a dedicated named logger so they can be
// routed independently of application logs.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) AuthnFailure(subject, reason string) {
	s.l.Warn("authentication failure",
		zap.String("event", "authn_failure"),
		zap.String("subject", subject),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) AuthzFailure(subject, action string) {
	s.l.Warn("authorization failure",
		zap.String("event", "authz_failure"),
		zap.String("subject", subject),
		zap.String("action", action),
	)
}

func (s *SecurityLogger) TenantMismatch(subject, tenantID, endpoint string) {
	s.l.Warn("cross-tenant access rejected",
		zap.String("event", "tenant_mismatch"),
		zap.String("subject", subject),
		zap.String("tenant_id", tenantID),
		zap.String("endpoint", endpoint),
	)
}

func (s *SecurityLogger) ExpiryCheckDisabled() {
	s.l.Error("TOKEN EXPIRY CHECKING IS DISABLED - this must never be enabled in production",
		zap.String("event", "expiry_check_disabled"),
	)
}

func (s *SecurityLogger) EnforcementDisabled() {
	s.l.Error("TENANT ENFORCEMENT IS DISABLED - every caller sees every document",
		zap.String("event", "enforcement_disabled"),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "system_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "system_shutdown"))
}
