package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/view"
)

func newLoginCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username-or-email> <password>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := view.NewAuth((*a).client, (*a).sessions, (*a).syncer, (*a).nav)
			if err := auth.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("logged in, cart has %d item(s)\n", (*a).syncer.Count())
			return nil
		},
	}
}

func newRegisterCmd(a **app) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := view.NewAuth((*a).client, (*a).sessions, (*a).syncer, (*a).nav)
			if err := auth.Register(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Println("account created")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	return cmd
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			view.NewAuth((*a).client, (*a).sessions, (*a).syncer, (*a).nav).Logout()
			fmt.Println("logged out")
			return nil
		},
	}
}

func newProductsCmd(a **app) *cobra.Command {
	var filter api.ProductFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := view.NewCatalog((*a).client, (*a).syncer, (*a).mutations)
			defer catalog.Close()

			page, err := catalog.Load(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE")
			for _, p := range page.Content {
				fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\n", p.ID, p.Name, p.BrandName, p.Price)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("page %d of %d (%d products)\n", page.Number+1, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Size, "size", 0, "page size")
	cmd.Flags().Int64Var(&filter.CategoryID, "category", 0, "filter by category id")
	cmd.Flags().Int64Var(&filter.BrandID, "brand", 0, "filter by brand id")
	cmd.Flags().Float64Var(&filter.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "maximum price")
	cmd.Flags().StringVar(&filter.Search, "search", "", "search term")
	return cmd
}

func newProductCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			detail := view.NewProductDetail((*a).client, (*a).syncer, (*a).mutations, (*a).notifier, (*a).nav)
			defer detail.Close()

			product, err := detail.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%s  $%.2f\n%s\n(%s / %s)\n",
				product.Name, product.Price, product.Description, product.CategoryName, product.BrandName)
			return nil
		},
	}
}

func newCartCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cv := view.NewCartView((*a).client, (*a).syncer, (*a).mutations)
			defer cv.Close()

			fetched, err := cv.Load(cmd.Context())
			if err != nil {
				return err
			}
			printCart(fetched)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(c *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				quantity := 1
				if len(args) == 2 {
					if quantity, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("invalid quantity %q", args[1])
					}
				}
				// One mutation per requested unit keeps the counter's
				// optimistic bump aligned with each add.
				catalog := view.NewCatalog((*a).client, (*a).syncer, (*a).mutations)
				defer catalog.Close()
				for i := 0; i < quantity; i++ {
					if err := <-catalog.AddToCart(c.Context(), productID); err != nil {
						return err
					}
				}
				fmt.Printf("cart has %d item(s)\n", (*a).syncer.Count())
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <item-id> <quantity>",
			Short: "Change a line item's quantity",
			Args:  cobra.ExactArgs(2),
			RunE: func(c *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", args[0])
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				cv := view.NewCartView((*a).client, (*a).syncer, (*a).mutations)
				defer cv.Close()
				if _, err := cv.Load(c.Context()); err != nil {
					return err
				}
				if err := <-cv.UpdateQuantity(c.Context(), itemID, quantity); err != nil {
					return err
				}
				printCart(cv.Cart())
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Remove a line item",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", args[0])
				}
				cv := view.NewCartView((*a).client, (*a).syncer, (*a).mutations)
				defer cv.Close()
				if _, err := cv.Load(c.Context()); err != nil {
					return err
				}
				if err := <-cv.RemoveItem(c.Context(), itemID); err != nil {
					return err
				}
				printCart(cv.Cart())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				cv := view.NewCartView((*a).client, (*a).syncer, (*a).mutations)
				defer cv.Close()
				if _, err := cv.Load(c.Context()); err != nil {
					return err
				}
				return <-cv.Clear(c.Context())
			},
		},
	)
	return cmd
}

func newCheckoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			co := view.NewCheckout((*a).client, (*a).syncer, (*a).mutations, (*a).nav)
			defer co.Close()

			fetched, user, err := co.Load(cmd.Context())
			if err != nil {
				return err
			}
			printCart(fetched)
			if user != nil && user.AddressLine1 != "" {
				fmt.Printf("shipping to: %s, %s %s\n", user.AddressLine1, user.City, user.ZipCode)
			}
			if err := <-co.PlaceOrder(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("order placed, see", (*a).nav.Current())
			return nil
		},
	}
}

func newOrdersCmd(a **app) *cobra.Command {
	var watch time.Duration
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders := view.NewOrders((*a).client)
			defer orders.Close()

			list, err := orders.Load(cmd.Context())
			if err != nil {
				return err
			}
			printOrders(list)
			if watch > 0 {
				orders.Watch(cmd.Context(), watch, printOrders)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&watch, "watch", 0, "poll for status changes at this interval")
	return cmd
}

func newOrderCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			orders := view.NewOrders((*a).client)
			defer orders.Close()

			order, err := orders.Detail(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOrders([]domain.Order{*order})
			for _, item := range order.Items {
				fmt.Printf("  %dx %s $%.2f\n", item.Quantity, item.ProductName, item.Subtotal)
			}
			return nil
		},
	}
}

func newProfileCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := view.NewProfile((*a).client, (*a).sessions, (*a).mutations, (*a).notifier)
			defer profile.Close()

			user, err := profile.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			if user.AddressLine1 != "" {
				fmt.Printf("%s %s, %s, %s %s\n", user.FirstName, user.LastName, user.AddressLine1, user.City, user.ZipCode)
			}
			return nil
		},
	}

	var req api.UpdateProfileRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Update shipping details",
		RunE: func(c *cobra.Command, _ []string) error {
			profile := view.NewProfile((*a).client, (*a).sessions, (*a).mutations, (*a).notifier)
			defer profile.Close()
			return <-profile.Update(c.Context(), req)
		},
	}
	update.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	update.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	update.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
	update.Flags().StringVar(&req.AddressLine1, "address", "", "address line 1")
	update.Flags().StringVar(&req.AddressLine2, "address2", "", "address line 2")
	update.Flags().StringVar(&req.City, "city", "", "city")
	update.Flags().StringVar(&req.State, "state", "", "state")
	update.Flags().StringVar(&req.ZipCode, "zip", "", "zip code")
	update.Flags().StringVar(&req.Country, "country", "", "country")
	cmd.AddCommand(update)
	return cmd
}

func newWishlistCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show your wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := view.NewProfile((*a).client, (*a).sessions, (*a).mutations, (*a).notifier)
			defer profile.Close()

			entries, err := profile.Wishlist(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%d\t%s\t$%.2f\n", e.Product.ID, e.Product.Name, e.Product.Price)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Save a product to the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				detail := view.NewProductDetail((*a).client, (*a).syncer, (*a).mutations, (*a).notifier, (*a).nav)
				defer detail.Close()
				return detail.AddToWishlist(c.Context(), productID)
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a product from the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				profile := view.NewProfile((*a).client, (*a).sessions, (*a).mutations, (*a).notifier)
				defer profile.Close()
				return profile.RemoveFromWishlist(c.Context(), productID)
			},
		},
	)
	return cmd
}

func printCart(c *domain.Cart) {
	if c.IsEmpty() {
		fmt.Println("cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tSUBTOTAL")
	for _, item := range c.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t$%.2f\n", item.ID, item.ProductName, item.Quantity, item.Subtotal)
	}
	_ = w.Flush()
	fmt.Printf("total: $%.2f\n", c.TotalAmount)
}

func printOrders(orders []domain.Order) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tTOTAL\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t$%.2f\t%s\n", o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format(time.DateOnly))
	}
	_ = w.Flush()
}
