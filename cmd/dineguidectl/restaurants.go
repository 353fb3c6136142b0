package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dineguide/dineguide/client"
	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/menu"
	"github.com/dineguide/dineguide/internal/model"
)

func newRestaurantsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "restaurants", Short: "Restaurant operations"}
	cmd.AddCommand(newListRestaurantsCmd(g))
	cmd.AddCommand(newGetRestaurantCmd(g))
	cmd.AddCommand(newCreateRestaurantCmd(g))
	cmd.AddCommand(newDeleteRestaurantCmd(g))
	return cmd
}

func newListRestaurantsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			recs, err := c.ListRestaurants(ctx)
			if err != nil {
				return err
			}
			return g.print(cmd.OutOrStdout(), recs, func(w io.Writer) {
				for _, r := range recs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Cuisine, catalog.ClassifyPriceRange(r.PriceRange))
				}
				fmt.Fprintf(w, "%d restaurants\n", len(recs))
			})
		},
	}
}

func newGetRestaurantCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get RESTAURANT_ID",
		Short: "Show one restaurant with its menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			r, err := c.GetRestaurant(ctx, args[0])
			if err != nil {
				return err
			}
			return g.print(cmd.OutOrStdout(), r, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s)\n", r.Name, r.ID)
				if r.Neighbourhood != "" {
					fmt.Fprintf(w, "Neighbourhood: %s\n", r.Neighbourhood)
				}
				if r.Cuisine != "" {
					fmt.Fprintf(w, "Cuisine: %s\n", r.Cuisine)
				}
				fmt.Fprintf(w, "Price: %s\n", catalog.ClassifyPriceRange(r.PriceRange).Label())
				if len(r.Tags) > 0 {
					fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
				}
				printMenu(w, r.Menu)
				fmt.Fprintf(w, "%d reviews\n", len(r.Reviews))
			})
		},
	}
}

func newCreateRestaurantCmd(g *globals) *cobra.Command {
	var (
		fromFile      string
		name          string
		neighbourhood string
		address       string
		cuisine       string
		priceRange    string
		summary       string
		website       string
		tags          []string
		sections      []string
		items         []string
		mainImage     string
		gallery       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a restaurant",
		Long: `Create a restaurant from flags, optionally starting from a JSON file.

Menu sections are created with --section NAME. Items are added with
--item "SECTION|NAME|PRICE[|DESCRIPTION]" and go into the section of that name.
The menu is checked locally before anything is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec model.Restaurant
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
				if err := json.Unmarshal(data, &rec); err != nil {
					return fmt.Errorf("decode %s: %w", fromFile, err)
				}
			}
			setIf(&rec.Name, name)
			setIf(&rec.Neighbourhood, neighbourhood)
			setIf(&rec.StreetAddress, address)
			setIf(&rec.Cuisine, cuisine)
			setIf(&rec.PriceRange, priceRange)
			setIf(&rec.Summary, summary)
			setIf(&rec.Website, website)
			if len(tags) > 0 {
				rec.Tags = tags
			}
			if strings.TrimSpace(rec.Name) == "" {
				return fmt.Errorf("--name is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			m, err := buildMenu(ctx, rec.Menu, sections, items)
			if err != nil {
				return err
			}
			rec.Menu = m

			form := client.RestaurantForm{Restaurant: rec}
			if mainImage != "" {
				if form.MainImage, err = readImage(mainImage); err != nil {
					return err
				}
			}
			for _, p := range gallery {
				u, err := readImage(p)
				if err != nil {
					return err
				}
				form.GalleryImages = append(form.GalleryImages, *u)
			}

			c, err := g.client()
			if err != nil {
				return err
			}
			created, err := c.CreateRestaurant(ctx, form)
			if err != nil {
				return err
			}
			log.Debug().Str("restaurant_id", created.ID).Int("sections", len(created.Menu)).Msg("restaurant created")
			return g.print(cmd.OutOrStdout(), created, func(w io.Writer) {
				fmt.Fprintf(w, "Restaurant created: %s - %s\n", created.ID, created.Name)
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "JSON restaurant record to start from")
	cmd.Flags().StringVar(&name, "name", "", "Name (required unless set in --file)")
	cmd.Flags().StringVar(&neighbourhood, "neighbourhood", "", "Neighbourhood")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&cuisine, "cuisine", "", "Cuisine")
	cmd.Flags().StringVar(&priceRange, "price-range", "", `Price descriptor such as "$$" or "moderate"`)
	cmd.Flags().StringVar(&summary, "summary", "", "Short summary")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&sections, "section", nil, "Menu section name (repeatable)")
	cmd.Flags().StringArrayVar(&items, "item", nil, `Menu item "SECTION|NAME|PRICE[|DESCRIPTION]" (repeatable)`)
	cmd.Flags().StringVar(&mainImage, "main-image", "", "Main image file")
	cmd.Flags().StringArrayVar(&gallery, "gallery-image", nil, "Gallery image file (repeatable)")
	return cmd
}

func newDeleteRestaurantCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RESTAURANT_ID",
		Short: "Delete a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := c.DeleteRestaurant(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restaurant deleted: %s\n", args[0])
			return nil
		},
	}
}

// buildMenu extends initial with sections and items in a local-mode editor
// and runs the submit-time checks on the result.
func buildMenu(ctx context.Context, initial []model.MenuSection, sections, items []string) ([]model.MenuSection, error) {
	ed := menu.Open("", initial, nil)
	for _, name := range sections {
		if _, err := ed.AddSection(ctx, strings.TrimSpace(name)); err != nil {
			return nil, err
		}
	}
	for _, raw := range items {
		sectionName, item, err := parseItemFlag(raw)
		if err != nil {
			return nil, err
		}
		sec, ok := menu.SectionByName(ed.Menu(), sectionName)
		if !ok {
			return nil, fmt.Errorf("item %q: no section named %q", item.Name, sectionName)
		}
		if _, err := ed.AddItem(ctx, sec.Key, item); err != nil {
			return nil, err
		}
	}
	if err := ed.Validate(); err != nil {
		return nil, err
	}
	return ed.Menu(), nil
}

func parseItemFlag(s string) (string, model.MenuItem, error) {
	parts := strings.SplitN(s, "|", 4)
	if len(parts) < 3 {
		return "", model.MenuItem{}, fmt.Errorf("item %q: want SECTION|NAME|PRICE[|DESCRIPTION]", s)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return "", model.MenuItem{}, fmt.Errorf("item %q: invalid price", s)
	}
	item := model.MenuItem{Name: strings.TrimSpace(parts[1]), Price: price}
	if len(parts) == 4 {
		item.Description = strings.TrimSpace(parts[3])
	}
	return strings.TrimSpace(parts[0]), item, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
