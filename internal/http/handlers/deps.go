package handlers

import (
	"github.com/jmoiron/sqlx"

	"tillbook/internal/config"
	"tillbook/internal/repos"
	"tillbook/internal/services"
	"tillbook/internal/uploads"
)

type Deps struct {
	ItemHandler *ItemHandler
	SaleHandler *SaleHandler
	CartHandler *CartHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	itemRepo := repos.NewItemRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	catalogSvc := services.NewCatalogService(itemRepo)
	ledgerSvc := services.NewLedgerService(saleRepo)
	cartSvc := services.NewCartService(itemRepo)

	media := &uploads.Store{Dir: cfg.MediaDir}

	return &Deps{
		ItemHandler: &ItemHandler{Catalog: catalogSvc, Ledger: ledgerSvc, Cart: cartSvc, Media: media},
		SaleHandler: &SaleHandler{Ledger: ledgerSvc},
		CartHandler: &CartHandler{Cart: cartSvc, Ledger: ledgerSvc},
	}
}
