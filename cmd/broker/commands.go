package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brokermobile/broker-client/internal/config"
	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
	"github.com/brokermobile/broker-client/internal/order"
	"github.com/brokermobile/broker-client/internal/render"
)

func newRootCmd(ctx context.Context, cfg config.Config, zapLogger logger.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "broker",
		Short:         "Browse instruments, view the portfolio and place orders",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newInstrumentsCmd(ctx, cfg, zapLogger),
		newSearchCmd(ctx, cfg, zapLogger),
		newPortfolioCmd(ctx, cfg, zapLogger),
		newOrderCmd(ctx, cfg, zapLogger),
	)

	return rootCmd
}

func newInstrumentsCmd(ctx context.Context, cfg config.Config, zapLogger logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "Fetch and list the instrument catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cfg, zapLogger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.instruments.Fetch(ctx); err != nil {
				// stale-but-valid: show the last snapshot if there is one
				if cached := a.instruments.Instruments(); len(cached) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "showing cached catalog: %s\n", err)
					render.Instruments(cmd.OutOrStdout(), cached)
					return nil
				}
				return err
			}

			render.Instruments(cmd.OutOrStdout(), a.instruments.Instruments())
			return nil
		},
	}
}

func newSearchCmd(ctx context.Context, cfg config.Config, zapLogger logger.Logger) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search instruments by ticker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cfg, zapLogger)
			if err != nil {
				return err
			}
			defer cleanup()

			if interactive {
				return runInteractiveSearch(ctx, cmd, a)
			}

			if len(args) == 0 {
				return errors.New("query argument is required unless --interactive is set")
			}

			if err := a.instruments.Search(ctx, args[0]); err != nil {
				return err
			}
			render.Instruments(cmd.OutOrStdout(), a.instruments.SearchResults())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries line by line from stdin through the debounced search")
	return cmd
}

// runInteractiveSearch feeds stdin lines into the store's debounced search,
// rendering the result set once each burst of typing settles.
func runInteractiveSearch(ctx context.Context, cmd *cobra.Command, a *app) error {
	settle := a.cfg.Search.DebounceInterval + 100*time.Millisecond

	fmt.Fprintln(cmd.OutOrStdout(), "type a query and press enter (empty line exits search mode, ctrl-d quits)")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		a.instruments.DebouncedSearch(scanner.Text())

		// wait out the quiet window so the settled result can be shown
		time.Sleep(settle)
		if st := a.instruments.SearchStatus(); st.Err != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "search failed: %s\n", st.Err)
			continue
		}
		render.Instruments(cmd.OutOrStdout(), a.instruments.SearchResults())
	}

	return scanner.Err()
}

func newPortfolioCmd(ctx context.Context, cfg config.Config, zapLogger logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Fetch and list the account's holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cfg, zapLogger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.portfolio.Fetch(ctx); err != nil {
				if cached := a.portfolio.Holdings(); len(cached) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "showing cached portfolio: %s\n", err)
					render.Portfolio(cmd.OutOrStdout(), cached)
					return nil
				}
				return err
			}

			render.Portfolio(cmd.OutOrStdout(), a.portfolio.Holdings())
			return nil
		},
	}
}

func newOrderCmd(ctx context.Context, cfg config.Config, zapLogger logger.Logger) *cobra.Command {
	var (
		instrumentID int
		side         string
		kind         string
		quantity     string
		amount       string
		price        string
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a buy or sell order",
		RunE: func(cmd *cobra.Command, args []string) error {
			operation, err := model.ParseOperation(side)
			if err != nil {
				return err
			}
			orderType, err := model.ParseOrderType(kind)
			if err != nil {
				return err
			}

			a, cleanup, err := newApp(cfg, zapLogger)
			if err != nil {
				return err
			}
			defer cleanup()

			// the flow reads the instrument from the catalog snapshot;
			// refresh it when the rehydrated one doesn't know the id yet
			if _, ok := a.instruments.ByID(instrumentID); !ok {
				if err := a.instruments.Fetch(ctx); err != nil {
					return err
				}
			}

			flow := order.NewFlow(a.api, a.instruments, instrumentID, zapLogger)
			flow.Update(func(d order.Draft) order.Draft {
				d = d.WithOperation(operation).WithType(orderType).WithPrice(price)
				if amount != "" {
					return d.WithAmountMode(true).WithTotalAmount(amount)
				}
				return d.WithQuantity(quantity)
			})
			if amount != "" {
				flow.BlurTotalAmount()
			}

			result, err := flow.Submit(ctx)
			if err != nil {
				var vErr *order.ValidationError
				if errors.As(err, &vErr) {
					for field, msg := range vErr.Fields {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
					}
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order %d: %s\n", result.ID, result.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&instrumentID, "instrument", 0, "instrument id")
	cmd.Flags().StringVar(&side, "side", string(model.Buy), "BUY or SELL")
	cmd.Flags().StringVar(&kind, "type", string(model.Market), "MARKET or LIMIT")
	cmd.Flags().StringVar(&quantity, "quantity", "", "number of shares")
	cmd.Flags().StringVar(&amount, "amount", "", "total amount to spend, converted to a whole-share quantity")
	cmd.Flags().StringVar(&price, "price", "", "limit price, required for LIMIT orders")
	_ = cmd.MarkFlagRequired("instrument")
	cmd.MarkFlagsMutuallyExclusive("quantity", "amount")

	return cmd
}
