// Package config provides application configuration from environment
// variables, optionally layered over a YAML file.
//
// # Configuration Structure
//
// Server settings:
//
//	ABDATA_HOST="0.0.0.0"
//	ABDATA_PORT="8080"
//	ABDATA_PUBLIC_BASE_URL="http://localhost:8080"
//	ABDATA_READ_TIMEOUT="15s"
//	ABDATA_WRITE_TIMEOUT="30s"
//	ABDATA_SHUTDOWN_TIMEOUT="30s"
//
// Backend API:
//
//	ABDATA_BACKEND_URL="http://localhost:8000"
//	ABDATA_STATS_POLL_INTERVAL="30s"
//
// Federated sign-in (enabled when an issuer is set):
//
//	ABDATA_OIDC_ISSUER_URL=""
//	ABDATA_OIDC_CLIENT_ID=""
//	ABDATA_OIDC_CLIENT_SECRET=""
//	ABDATA_OIDC_REDIRECT_URL=""
//
// Session storage (in-process memory unless a redis URL is set):
//
//	ABDATA_REDIS_URL=""
//	ABDATA_SESSION_TTL="24h"
//
// Observability:
//
//	ABDATA_LOG_LEVEL="info"
//	ABDATA_METRICS_ENABLED="true"
//
// A YAML file named by ABDATA_CONFIG_FILE is applied before the environment,
// so environment variables always win.
package config
