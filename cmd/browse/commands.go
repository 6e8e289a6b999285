package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"estatehub/internal/browse"
	"estatehub/internal/client"
	"estatehub/internal/config"
	"estatehub/internal/domain/property"
	"estatehub/internal/logger"
)

type app struct {
	out     io.Writer
	baseURL string
	userID  string
	verbose bool

	log   *slog.Logger
	api   *client.Client
	state *browse.State
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "browse",
		Short:         "Browse EstateHub listings and manage favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.baseURL, "api", "", "API base URL (default from API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.userID, "user", "", "user id (default from USER_ID)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		a.listCmd(),
		a.citiesCmd(),
		a.favoritesCmd(),
		a.toggleCmd(),
		a.countCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.baseURL == "" {
		a.baseURL = cfg.Client.BaseURL
	}
	if a.userID == "" {
		a.userID = cfg.Client.UserID
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = logger.New(logger.Options{Writer: cmd.ErrOrStderr(), Level: level})
	a.api = client.New(a.baseURL)
	a.state = browse.NewState(a.api, a.userID, a.log)
	return nil
}

func (a *app) listCmd() *cobra.Command {
	f := browse.DefaultFilters()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.Validate(); err != nil {
				return err
			}
			if err := a.state.Load(cmd.Context()); err != nil {
				return err
			}
			visible := a.state.Visible(f)
			if err := a.printProperties(visible); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "%d of %d properties\n", len(visible), len(a.state.Properties()))
			return err
		},
	}
	cmd.Flags().StringVar(&f.PriceRange, "price", browse.All, priceHelp())
	cmd.Flags().StringVar(&f.Type, "type", browse.All, "apartment, house, villa, studio or all")
	cmd.Flags().StringVar(&f.City, "city", browse.All, "exact city name or all")
	return cmd
}

func (a *app) citiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities that have listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cities, err := a.api.Cities(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cities {
				if _, err := fmt.Fprintln(a.out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) favoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "Show the user's favorite properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			favs, err := a.api.Favorites(cmd.Context(), a.userID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCITY\tPRICE\tADDED")
			for _, f := range favs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					f.PropertyID, f.PropertyTitle, f.PropertyCity,
					formatPrice(f.PropertyPrice), f.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <property-id>",
		Short: "Add a property to favorites, or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := property.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := a.state.Load(cmd.Context()); err != nil {
				return err
			}
			on, err := a.state.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Code == "PROPERTY_NOT_FOUND" {
					return fmt.Errorf("property %s does not exist", id)
				}
				return err
			}
			verb := "removed from"
			if on {
				verb = "added to"
			}
			_, err = fmt.Fprintf(a.out, "property %s %s favorites (%d total)\n", id, verb, a.state.FavoriteCount())
			return err
		},
	}
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print how many favorites the user has",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.api.FavoriteCount(cmd.Context(), a.userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, n)
			return err
		},
	}
}

func (a *app) printProperties(props []property.Property) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tTITLE\tCITY\tTYPE\tPRICE\tSURFACE\tBEDS")
	for _, p := range props {
		mark := " "
		if a.state.IsFavorite(p.ID) {
			mark = "*"
		}
		beds := "-"
		if p.Bedrooms != nil {
			beds = strconv.Itoa(*p.Bedrooms)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d m²\t%s\n",
			mark, p.ID, p.Title, p.City, p.Type, formatPrice(p.Price), p.Surface, beds)
	}
	return w.Flush()
}

func priceHelp() string {
	help := "price bucket: all"
	for _, r := range browse.PriceRanges {
		help += ", " + string(r)
	}
	return help
}

// formatPrice renders 1250000 as "1 250 000 €".
func formatPrice(v float64) string {
	digits := strconv.FormatInt(int64(v), 10)
	var out []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return string(out) + " €"
}
