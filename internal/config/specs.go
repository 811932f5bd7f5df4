package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	// Document store coordinates. Requests are forwarded with these service
	// credentials, never with the caller's token.
	StoreURL      string        `envconfig:"store_url" required:"true"`
	StoreUser     string        `envconfig:"store_user" required:"true"`
	StorePassword string        `envconfig:"store_password" required:"true"`
	StoreTimeout  time.Duration `envconfig:"store_timeout" default:"30s"`
	// Change-feed requests are long polls and carry their own budget.
	ChangesTimeout time.Duration `envconfig:"changes_timeout" default:"300s"`

	// RegistryDB holds user, tenant and invitation documents.
	RegistryDB string   `envconfig:"registry_db" default:"registry"`
	DataDBs    []string `envconfig:"data_dbs"`

	TrustedIssuers []string `envconfig:"trusted_issuers" required:"true"`
	// JWKSURLs optionally pins a JWKS endpoint per issuer ("issuer:url" pairs),
	// bypassing OIDC discovery.
	JWKSURLs map[string]string `envconfig:"jwks_urls"`
	// SkipExpiryCheck disables token expiry validation. Development only.
	SkipExpiryCheck bool `envconfig:"skip_expiry_check" default:"false"`

	TenantEnforcement bool   `envconfig:"tenant_enforcement" default:"true"`
	TenantField       string `envconfig:"tenant_field" default:"tenant_id"`
	// ScopedIDTypes lists document types whose IDs embed the owning tenant
	// ("<type>:<tenant>:<suffix>") instead of carrying the tenant field.
	ScopedIDTypes []string `envconfig:"scoped_id_types" default:"attachment"`

	// AdminApps and AdminSubjects form the allow-list of callers exempt from
	// tenant rewriting and filtering.
	AdminApps     []string `envconfig:"admin_apps"`
	AdminSubjects []string `envconfig:"admin_subjects"`

	SessionCacheTTL    time.Duration `envconfig:"session_cache_ttl" default:"1h"`
	UserCacheTTL       time.Duration `envconfig:"user_cache_ttl" default:"30s"`
	InvitationLifetime time.Duration `envconfig:"invitation_lifetime" default:"168h"`
}
