// cmd/console/main.go
//
// console is the operator-facing admin tool for the product catalog. It
// authenticates against the shared admin secret, then creates, edits and
// deletes catalog entries through the remote store.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marigoldshop/catalog-admin/internal/client"
	"github.com/marigoldshop/catalog-admin/internal/config"
	"github.com/marigoldshop/catalog-admin/internal/console"
	"github.com/marigoldshop/catalog-admin/internal/reconciler"
)

type app struct {
	cfg     *config.Config
	session *console.Session
	ctrl    *console.Controller
}

func main() {
	logrus.SetLevel(logrus.WarnLevel)

	a := &app{}
	root := &cobra.Command{
		Use:           "console",
		Short:         "Admin console for the accessories/gifts product catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.listCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	session, err := console.OpenSession(cfg.Admin.StatePath)
	if err != nil {
		return err
	}

	catalogClient := client.New(cfg.Catalog.BaseURL)
	rec := reconciler.New(catalogClient)

	a.cfg = cfg
	a.session = session
	a.ctrl = console.NewController(cfg.Admin.Secret, catalogClient, rec, session)
	return nil
}

func (a *app) close() {
	if a.session != nil {
		a.session.Close()
	}
}
