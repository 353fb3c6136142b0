package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dineguide/dineguide/client"
	"github.com/dineguide/dineguide/internal/listing"
)

func newReviewsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "reviews", Short: "Review operations"}

	var author, comment string
	var rating int
	addCmd := &cobra.Command{
		Use:   "add RESTAURANT_ID",
		Short: "Add a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			rv, err := c.CreateReview(ctx, args[0], client.ReviewInput{Author: author, Rating: rating, Comment: comment})
			if err != nil {
				return err
			}
			return g.print(cmd.OutOrStdout(), rv, func(w io.Writer) {
				fmt.Fprintf(w, "Review created: %s\n", rv.Key)
			})
		},
	}
	addCmd.Flags().StringVar(&author, "author", "", "Author (required)")
	addCmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5 (required)")
	addCmd.Flags().StringVar(&comment, "comment", "", "Comment")
	_ = addCmd.MarkFlagRequired("author")
	_ = addCmd.MarkFlagRequired("rating")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm RESTAURANT_ID REVIEW_KEY",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			return c.DeleteReview(ctx, args[0], args[1])
		},
	})
	return cmd
}

func newCollectionsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "collections", Short: "Curated collection operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			cols, err := c.ListCollections(ctx)
			if err != nil {
				return err
			}
			return g.print(cmd.OutOrStdout(), cols, func(w io.Writer) {
				for _, col := range cols {
					fmt.Fprintf(w, "%s\t%s\t%d restaurants\n", col.Slug, col.Title, len(col.RestaurantIDs))
				}
			})
		},
	})

	var title, description string
	var ids []string
	putCmd := &cobra.Command{
		Use:   "put SLUG",
		Short: "Create or replace a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			col, err := c.PutCollection(ctx, args[0], client.CollectionInput{Title: title, Description: description, RestaurantIDs: ids})
			if err != nil {
				return err
			}
			return g.print(cmd.OutOrStdout(), col, func(w io.Writer) {
				fmt.Fprintf(w, "Collection saved: %s (%s)\n", col.Slug, strings.Join(col.RestaurantIDs, ", "))
			})
		},
	}
	putCmd.Flags().StringVar(&title, "title", "", "Title (required)")
	putCmd.Flags().StringVar(&description, "description", "", "Description")
	putCmd.Flags().StringSliceVar(&ids, "restaurant", nil, "Restaurant id, in display order (repeatable)")
	_ = putCmd.MarkFlagRequired("title")
	cmd.AddCommand(putCmd)

	return cmd
}

func newPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages CURRENT TOTAL",
		Short: "Print the listing page strip for a page position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("current page: %w", err)
			}
			total, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("total pages: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), listing.FormatPageNumbers(listing.PageNumbers(current, total), current))
			return nil
		},
	}
}
