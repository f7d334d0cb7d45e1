// cmd/console/commands.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marigoldshop/catalog-admin/internal/models"
	"github.com/marigoldshop/catalog-admin/internal/reconciler"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <password>",
		Short: "Authenticate against the admin secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ctrl.Login(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Logged in.")
			printCatalog(a.ctrl.Snapshot())
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show both category lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ctrl.Reload(cmd.Context()); err != nil {
				return err
			}
			printCatalog(a.ctrl.Snapshot())
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.ctrl.Draft()); err != nil {
				return err
			}
			product, err := a.ctrl.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s).\n", product.Title, product.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an existing catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ctrl.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := a.ctrl.BeginEdit(args[0]); err != nil {
				return err
			}
			if err := flags.apply(cmd, a.ctrl.Draft()); err != nil {
				return err
			}
			product, err := a.ctrl.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (%s).\n", product.Title, product.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.ctrl.Delete(cmd.Context(), args[0], models.Category(category))
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s (%s).\n", product.Title, product.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category hint (accessories|gifts)")
	return cmd
}

// draftFlags maps command-line flags onto the reconciler's Draft. Only flags
// the operator actually set are applied, so an edit leaves the other fields
// as seeded from the existing product.
type draftFlags struct {
	title         string
	description   string
	category      string
	subcategory   string
	price         string
	originalPrice string
	offerPrice    string
	badge         string
	imageURL      string
	imageFile     string
	quantity      string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "product title")
	fl.StringVar(&f.description, "description", "", "product description")
	fl.StringVar(&f.category, "category", "", "category (accessories|gifts)")
	fl.StringVar(&f.subcategory, "subcategory", "", "subcategory within the category")
	fl.StringVar(&f.price, "price", "", "legacy price field")
	fl.StringVar(&f.originalPrice, "original-price", "", "original price")
	fl.StringVar(&f.offerPrice, "offer-price", "", "offer price")
	fl.StringVar(&f.badge, "badge", "", "badge label")
	fl.StringVar(&f.imageURL, "image-url", "", "image URL to use verbatim")
	fl.StringVar(&f.imageFile, "image-file", "", "image file to upload")
	fl.StringVar(&f.quantity, "quantity", "", "available quantity (accessories only)")
}

func (f *draftFlags) apply(cmd *cobra.Command, d *reconciler.Draft) error {
	fl := cmd.Flags()

	if fl.Changed("category") {
		d.SetCategory(models.Category(f.category))
	}
	if fl.Changed("title") {
		d.Title = f.title
	}
	if fl.Changed("description") {
		d.Description = f.description
	}
	if fl.Changed("subcategory") {
		d.Subcategory = f.subcategory
	}
	if fl.Changed("price") {
		d.Price = f.price
	}
	if fl.Changed("original-price") {
		d.OriginalPrice = f.originalPrice
	}
	if fl.Changed("offer-price") {
		d.OfferPrice = f.offerPrice
	}
	if fl.Changed("badge") {
		d.Badge = f.badge
	}
	if fl.Changed("quantity") {
		d.Quantity = f.quantity
	}

	if fl.Changed("image-file") && fl.Changed("image-url") {
		return fmt.Errorf("specify either --image-file or --image-url, not both")
	}
	if fl.Changed("image-file") {
		data, err := os.ReadFile(f.imageFile)
		if err != nil {
			return fmt.Errorf("failed to read image file: %w", err)
		}
		d.SelectFile(filepath.Base(f.imageFile), data)
	} else if fl.Changed("image-url") {
		d.SetImageURL(f.imageURL)
	}

	return nil
}

func printCatalog(catalog models.Catalog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	printList := func(heading string, products []models.Product) {
		fmt.Fprintf(w, "%s (%d)\n", heading, len(products))
		fmt.Fprintln(w, "  ID\tTITLE\tSUBCATEGORY\tPRICE\tQTY\tIMAGE")
		for _, p := range products {
			qty := "-"
			if p.Category == models.CategoryAccessories && p.AvailableQuantity != nil {
				qty = fmt.Sprintf("%d", *p.AvailableQuantity)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Title, p.Subcategory, p.DisplayPrice(), qty, p.ImageRef())
		}
	}

	printList("Accessories", catalog.Accessories)
	printList("Gifts", catalog.Gifts)
}
