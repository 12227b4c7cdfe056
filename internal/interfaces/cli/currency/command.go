// Package currency implements the "tripdesk currency" commands, which run
// the rate provider in-process for operators without going through HTTP.
package currency

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/domain/currency"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/bootstrap"
	"github.com/tripdesk/tripdesk/internal/shared/biztime"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

const timeLayout = "2006-01-02 15:04:05 MST"

type rateService interface {
	BaseCurrency() string
	ListSupportedCurrencies() []currency.Info
	GetCurrencyInfo(code string) (currency.Info, bool)
	GetRates(ctx context.Context) *currency.Snapshot
	RebaseRates(snapshot *currency.Snapshot, base string) (*currency.Snapshot, error)
	Quote(ctx context.Context, amount float64, from, to string) (*appcurrency.Conversion, error)
	GetExchangeRate(ctx context.Context, from, to string) (float64, error)
	FormatAmount(amount float64, code string) string
	CacheStatus() appcurrency.CacheStatus
}

type serviceFactory func() (rateService, error)

// NewCommand returns the currency command group. Logging is lowered to
// warnings unless --verbose is set so that results stay readable.
func NewCommand(opts *bootstrap.Options) *cobra.Command {
	var verbose bool

	factory := func() (rateService, error) {
		cfg, err := bootstrap.Setup(opts)
		if err != nil {
			return nil, err
		}
		if !verbose {
			logger.SetLevel(slog.LevelWarn)
		}
		return bootstrap.NewRateProvider(&cfg.Currency, logger.NewLogger()), nil
	}

	cmd := newCommand(factory)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info level logs")
	return cmd
}

func newCommand(factory serviceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Query exchange rates and convert amounts",
	}

	cmd.AddCommand(
		newListCommand(factory),
		newRatesCommand(factory),
		newConvertCommand(factory),
		newRateCommand(factory),
		newFormatCommand(factory),
		newInfoCommand(factory),
		newStatusCommand(factory),
	)

	return cmd
}

func newListCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory()
			if err != nil {
				return err
			}

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "CODE\tSYMBOL\tNAME")
			for _, info := range svc.ListSupportedCurrencies() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Code, info.Symbol, info.Name)
			}
			return w.Flush()
		},
	}
}

func newRatesCommand(factory serviceFactory) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the current rate snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory()
			if err != nil {
				return err
			}

			snapshot := svc.GetRates(cmd.Context())
			if base != "" {
				if snapshot, err = svc.RebaseRates(snapshot, strings.ToUpper(base)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base: %s  Source: %s  Fetched: %s\n",
				snapshot.BaseCurrency, sourceLabel(snapshot.IsFallback),
				biztime.FormatInBizTimezone(snapshot.FetchedAt, timeLayout))

			codes := make([]string, 0, len(snapshot.Rates))
			for code := range snapshot.Rates {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			w := newTabWriter(out)
			fmt.Fprintln(w, "CODE\tRATE")
			for _, code := range codes {
				fmt.Fprintf(w, "%s\t%s\n", code, strconv.FormatFloat(snapshot.Rates[code], 'f', -1, 64))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Express rates against this currency")
	return cmd
}

func newConvertCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between two currencies",
		Example: "  tripdesk currency convert 250 EUR GBP",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			svc, err := factory()
			if err != nil {
				return err
			}

			conv, err := svc.Quote(cmd.Context(), amount, strings.ToUpper(args[1]), strings.ToUpper(args[2]))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (rate %s)\n",
				conv.FormattedAmount, conv.FormattedConverted,
				strconv.FormatFloat(currency.RoundHalfAwayFromZero(conv.Rate, 4), 'f', 4, 64))
			if conv.IsFallback {
				fmt.Fprintln(cmd.OutOrStdout(), "note: approximate fallback rates, live rates unavailable")
			}
			return nil
		},
	}
}

func newRateCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "rate FROM TO",
		Short: "Print the exchange rate between two currencies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory()
			if err != nil {
				return err
			}

			from, to := strings.ToUpper(args[0]), strings.ToUpper(args[1])
			rate, err := svc.GetExchangeRate(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %s %s\n", from,
				strconv.FormatFloat(currency.RoundHalfAwayFromZero(rate, 4), 'f', 4, 64), to)
			return nil
		},
	}
}

func newFormatCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "format AMOUNT CODE",
		Short: "Format an amount with a currency symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			svc, err := factory()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), svc.FormatAmount(amount, args[1]))
			return nil
		},
	}
}

func newInfoCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "info CODE",
		Short: "Show details of one currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory()
			if err != nil {
				return err
			}

			info, ok := svc.GetCurrencyInfo(args[0])
			if !ok {
				return fmt.Errorf("currency %s is not supported", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", info.Code, info.Symbol, info.Name)
			return nil
		},
	}
}

func newStatusCommand(factory serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Fetch rates once and report the cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory()
			if err != nil {
				return err
			}

			snapshot := svc.GetRates(cmd.Context())
			status := svc.CacheStatus()

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(w, "base\t%s\n", svc.BaseCurrency())
			fmt.Fprintf(w, "live source\t%t\n", status.LiveSource)
			fmt.Fprintf(w, "serving\t%s\n", sourceLabel(snapshot.IsFallback))
			fmt.Fprintf(w, "cached\t%t\n", status.Populated)
			if status.Populated {
				fmt.Fprintf(w, "cached at\t%s\n", biztime.FormatInBizTimezone(status.CachedAt, timeLayout))
				fmt.Fprintf(w, "expires at\t%s\n", biztime.FormatInBizTimezone(status.ExpiresAt, timeLayout))
			}
			fmt.Fprintf(w, "fetched at\t%s\n", biztime.FormatInBizTimezone(snapshot.FetchedAt, timeLayout))
			return w.Flush()
		},
	}
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %q: must be a number", s)
	}
	return amount, nil
}

func sourceLabel(isFallback bool) string {
	if isFallback {
		return "fallback"
	}
	return "live"
}

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}
