// Package health provides probe endpoints for weft's watch mode.
//
// Watch mode is the one long-running weft process, so it is the one that
// orchestrators and uptime checks want to probe. The package serves three
// endpoints on the same mux as the metrics handler:
//
//   - liveness: the process is up (always 200)
//   - readiness: every registered component check passes (503 when degraded)
//   - version: build information
//
// Component checks are plain functions. Watch mode registers one for the
// workspace variables file (unhealthy while the last reload failed and the
// environment is reset to empty) and, when the module library is enabled,
// one for the library checkout.
//
// Usage:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("workspace", func(ctx context.Context) error {
//	    return ws.LastError()
//	})
//
//	mux.HandleFunc("/healthz", checker.LivenessHandler())
//	mux.HandleFunc("/readyz", checker.ReadinessHandler())
//	mux.HandleFunc("/version", health.VersionHandler(health.VersionInfo{
//	    Version: version,
//	    Commit:  commit,
//	}))
//
// Checks run concurrently under a per-check timeout, so one stuck probe
// cannot hold up the endpoint.
package health
