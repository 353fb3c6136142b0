package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dineguide/dineguide/internal/menu"
	"github.com/dineguide/dineguide/internal/model"
)

func newMenuCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "menu", Short: "Edit the menu of a stored restaurant"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show RESTAURANT_ID",
		Short: "Print the menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				m := ed.Menu()
				return g.print(cmd.OutOrStdout(), m, func(w io.Writer) { printMenu(w, m) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-section RESTAURANT_ID NAME",
		Short: "Append a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				key, err := ed.AddSection(ctx, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Section created: %s\n", key)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename-section RESTAURANT_ID SECTION_KEY NAME",
		Short: "Rename a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				return ed.RenameSection(ctx, args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm-section RESTAURANT_ID SECTION_KEY",
		Short: "Delete a section and its items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				return ed.DeleteSection(ctx, args[1])
			})
		},
	})

	cmd.AddCommand(newAddItemCmd(g))
	cmd.AddCommand(newEditItemCmd(g))

	cmd.AddCommand(&cobra.Command{
		Use:   "rm-item RESTAURANT_ID ITEM_KEY",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				return ed.DeleteItem(ctx, args[1])
			})
		},
	})

	return cmd
}

func newAddItemCmd(g *globals) *cobra.Command {
	var (
		name        string
		description string
		price       float64
		image       string
	)
	cmd := &cobra.Command{
		Use:   "add-item RESTAURANT_ID SECTION_KEY",
		Short: "Append an item to a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := model.MenuItem{Name: name, Description: description, Price: price}
			if image != "" {
				u, err := readImage(image)
				if err != nil {
					return err
				}
				item.PendingImage = u
			}
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				key, err := ed.AddItem(ctx, args[1], item)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item created: %s\n", key)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Item name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().Float64Var(&price, "price", 0, "Price (required)")
	cmd.Flags().StringVar(&image, "image", "", "Image file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newEditItemCmd(g *globals) *cobra.Command {
	var (
		name        string
		description string
		price       float64
	)
	cmd := &cobra.Command{
		Use:   "edit-item RESTAURANT_ID ITEM_KEY",
		Short: "Change fields of an item; unset flags are left alone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			if patch == (model.ItemPatch{}) {
				return fmt.Errorf("nothing to change: set --name, --description or --price")
			}
			return g.withEditor(cmd, args[0], func(ctx context.Context, ed *menu.Editor) error {
				return ed.UpdateItem(ctx, args[1], patch)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Float64Var(&price, "price", 0, "New price")
	return cmd
}

// withEditor loads the stored menu into a remote-mode editor and runs fn.
func (g *globals) withEditor(cmd *cobra.Command, restaurantID string, fn func(context.Context, *menu.Editor) error) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	current, err := c.GetMenu(ctx, restaurantID)
	if err != nil {
		return err
	}
	return fn(ctx, menu.Open(restaurantID, current, c))
}

func printMenu(w io.Writer, m []model.MenuSection) {
	if len(m) == 0 {
		fmt.Fprintln(w, "(no menu)")
		return
	}
	for _, s := range m {
		fmt.Fprintf(w, "%s  [%s]\n", s.Name, s.Key)
		for _, it := range s.Items {
			fmt.Fprintf(w, "  %-30s %8.2f  [%s]\n", it.Name, it.Price, it.Key)
		}
	}
}
