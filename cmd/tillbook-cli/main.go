package main

import (
	"log"
	"os"

	"tillbook/internal/cli"
	"tillbook/internal/config"
	"tillbook/internal/repos"
	"tillbook/internal/services"
)

func main() {
	cfg := config.Load()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	catalogSvc := services.NewCatalogService(repos.NewItemRepo(db))
	ledgerSvc := services.NewLedgerService(repos.NewSaleRepo(db))

	cli.New(catalogSvc, ledgerSvc, os.Stdin, os.Stdout).Run()
}
