// Commande hvafctl: outils d'administration hors ligne (statistiques, comptes admin, galerie)
package main

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"

	"humanity-verse-backend/config"
	"humanity-verse-backend/database"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

func main() {
	deps := &cmdDeps{Out: os.Stdout, Err: os.Stderr, Open: openStore}
	if err := newRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// openStore ouvre le store configuré par l'environnement
func openStore(ctx context.Context) (database.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.Environment)
	if err != nil {
		return nil, nil, err
	}

	var app *firebase.App
	if cfg.StoreDriver == config.StoreFirestore {
		if app, err = services.NewFirebaseApp(ctx, cfg, logger); err != nil {
			return nil, nil, err
		}
	}

	store, err := database.Connect(ctx, cfg, app, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		_ = store.Close()
		_ = logger.Sync()
	}, nil
}
