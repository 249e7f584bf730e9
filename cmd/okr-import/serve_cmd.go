package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence"
	"github.com/stratix-io/stratix-platform/modules/okr/presentation/controllers"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/configuration"
	"github.com/stratix-io/stratix-platform/pkg/httpapi"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the import read-side API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg := configuration.Use()
	pool, err := pgxpool.New(cmd.Context(), cfg.Database.Opts)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connecting to database: %w", err))
	}
	defer pool.Close()

	r := mux.NewRouter()
	if cfg.Prometheus.Enabled {
		r.Handle(cfg.Prometheus.Path, promhttp.Handler())
	}

	api := r.NewRoute().Subrouter()
	api.Use(tenantMiddleware(pool))
	controllers.NewImportAPIController(persistence.NewImportRepository(), cfg.Logger()).Register(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	cfg.Logger().WithField("addr", srv.Addr).Info("serving import API")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return withCode(exitDB, err)
	}
	return nil
}

// tenantMiddleware injects the pool and the caller's tenant into the request
// context. Authentication happens upstream; this service only scopes reads.
func tenantMiddleware(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := uuid.Parse(r.Header.Get("X-Tenant-ID"))
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "missing or invalid X-Tenant-ID header", nil)
				return
			}
			ctx := composables.WithPool(r.Context(), pool)
			ctx = composables.WithTenantID(ctx, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
