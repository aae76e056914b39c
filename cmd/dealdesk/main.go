package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/commission"
	"github.com/luxfolio/dealdesk/internal/commissionband"
	"github.com/luxfolio/dealdesk/internal/config"
	"github.com/luxfolio/dealdesk/internal/contact"
	"github.com/luxfolio/dealdesk/internal/economics"
	"github.com/luxfolio/dealdesk/internal/errlog"
	"github.com/luxfolio/dealdesk/internal/migration"
	"github.com/luxfolio/dealdesk/internal/observability"
	"github.com/luxfolio/dealdesk/internal/party"
	"github.com/luxfolio/dealdesk/internal/sale"
	"github.com/luxfolio/dealdesk/internal/scheduler"
	"github.com/luxfolio/dealdesk/internal/server"
	"github.com/luxfolio/dealdesk/internal/vat"
	"github.com/luxfolio/dealdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain
		vat.Module,
		economics.Module,
		commission.Module,
		commissionband.Module,
		party.Module,
		errlog.Module,
		accounting.Module,
		contact.Module,
		sale.Module,

		// Surfaces
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
