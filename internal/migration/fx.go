package migration

import (
	"github.com/bwmarrin/snowflake"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	"github.com/luxfolio/dealdesk/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Schema is kept in step with the models on startup so local and
// self-hosted installs work out of the box on any supported dialect.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, node *snowflake.Node) error {
		if err := conn.AutoMigrate(
			&saledomain.Sale{},
			&banddomain.CommissionBand{},
			&partydomain.Party{},
			&errlogdomain.ErrorEntry{},
		); err != nil {
			return err
		}
		return seed.EnsureDefaultBands(conn, node)
	}),
)
