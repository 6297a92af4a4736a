package main

import (
	"go.uber.org/fx"

	"idops-controlplane/internal/config"
	"idops-controlplane/internal/httpapi"
	"idops-controlplane/internal/logger"
	"idops-controlplane/internal/server"
	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/db"
	"idops-controlplane/pkg/gen"
	"idops-controlplane/pkg/health"
	"idops-controlplane/pkg/kvstore"
	"idops-controlplane/pkg/redis"
	"idops-controlplane/services/recommendation"
	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.Provide,
			logger.Provide,
		),
		db.Module,
		gen.Module,
		authz.Module,
		kvstore.Module,
		redis.Module,
		health.Module,
		snapshot.Module,
		recommendation.Module,
		task.Module,
		httpapi.Module,
		server.Module,
	)

	app.Run()
}
