// Package catalog implements the catalog inspection commands: they print
// what a category page or the provider list would show, straight from the
// catalog API and image storage.
package catalog

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/site"
)

// Command creates the catalog command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the remote catalog",
	}
	cmd.AddCommand(productsCommand(settings), providersCommand(settings))
	return cmd
}

func productsCommand(settings *conf.Settings) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "products <categoryId>",
		Short: "List the product cards of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := site.NewServices(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			l := listing.New(args[0], services.ListingDeps())
			l.Load(cmd.Context())
			if err := l.Err(); err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), l.Cards(search))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show products whose name contains this text")
	return cmd
}

func providersCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers with their catalog links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := site.NewServices(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			return printProviders(cmd.OutOrStdout(), listing.ProvidersSection(cmd.Context(), services.ListingDeps()))
		},
	}
}

func printProducts(w io.Writer, cards []listing.Card) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPROVIDER\tLINK\tIMAGE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.ProviderName, c.Link, orDash(c.ImageURL))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d products\n", len(cards))
	return err
}

func printProviders(w io.Writer, cards []listing.ProviderCard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLINK\tLOGO")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Link, orDash(c.LogoURL))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
