package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const (
	saleUsage     = "/sale customer | product | weight | cost | selling [| YYYY-MM-DD]"
	purchaseUsage = "/purchase supplier | product | weight | cost [| YYYY-MM-DD]"
	summaryUsage  = "/summary [days]"

	defaultSummaryDays = 10
)

// HelpText lists the supported chat commands.
var HelpText = strings.Join([]string{
	"Supported commands:",
	saleUsage,
	purchaseUsage,
	"/today",
	summaryUsage,
}, "\n")

// Ledger records entries submitted from chat.
type Ledger interface {
	AddSale(ctx context.Context, in models.SaleInput) (models.Sale, error)
	AddPurchase(ctx context.Context, in models.PurchaseInput) (models.Purchase, error)
}

// Reporting defines the views the dispatcher replies with.
type Reporting interface {
	SalesOn(ctx context.Context, date string) (reporting.SalesDay, error)
	SummaryForDays(ctx context.Context, days int) (reporting.Summary, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	ledger    Ledger
	reporting Reporting
	clock     clock.Clock
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(ledger Ledger, reporting Reporting, clk clock.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:    ledger,
		reporting: reporting,
		clock:     clk,
		logger:    logger,
	}
}

// HandleCommand runs cmd on behalf of sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSale:
		in, err := buildSaleInput(cmd)
		if err != nil {
			return "", err
		}
		sale, err := s.ledger.AddSale(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sale saved for %s: %s %.2f kg, selling %.2f, profit %.2f on %s.",
			sale.CustomerName, sale.ProductName, sale.Weight, sale.SellingPrice, sale.Profit, sale.SaleDate), nil
	case models.CommandPurchase:
		in, err := buildPurchaseInput(cmd)
		if err != nil {
			return "", err
		}
		purchase, err := s.ledger.AddPurchase(ctx, in)
		if err != nil {
			return "", err
		}
		unit := models.UnitCostUnavailable
		if v, ok := purchase.CostPerUnit(); ok {
			unit = fmt.Sprintf("%.2f", v)
		}
		return fmt.Sprintf("Purchase saved from %s: %s %.2f kg, cost %.2f (%s/kg) on %s.",
			purchase.SupplierName, purchase.ProductName, purchase.Weight, purchase.CostPrice, unit, purchase.ReceiveDate), nil
	case models.CommandToday:
		day, err := s.reporting.SalesOn(ctx, s.clock.Today())
		if err != nil {
			return "", err
		}
		return reporting.FormatSalesDay(day), nil
	case models.CommandSummary:
		days := defaultSummaryDays
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil {
				return "", fmt.Errorf("%w: %s", ErrInvalidArguments, summaryUsage)
			}
			days = n
		}
		summary, err := s.reporting.SummaryForDays(ctx, days)
		if err != nil {
			return "", err
		}
		return reporting.FormatSummary(summary), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func buildSaleInput(cmd models.Command) (models.SaleInput, error) {
	if len(cmd.Args) < 5 || len(cmd.Args) > 6 {
		return models.SaleInput{}, fmt.Errorf("%w: %s", ErrInvalidArguments, saleUsage)
	}

	amounts, err := parseAmounts(cmd.Args[2:5])
	if err != nil {
		return models.SaleInput{}, fmt.Errorf("%w: %s", ErrInvalidArguments, saleUsage)
	}

	in := models.SaleInput{
		CustomerName: cmd.Args[0],
		ProductName:  cmd.Args[1],
		Weight:       &amounts[0],
		CostPrice:    &amounts[1],
		SellingPrice: &amounts[2],
	}
	if len(cmd.Args) == 6 {
		in.SaleDate = cmd.Args[5]
	}
	return in, nil
}

func buildPurchaseInput(cmd models.Command) (models.PurchaseInput, error) {
	if len(cmd.Args) < 4 || len(cmd.Args) > 5 {
		return models.PurchaseInput{}, fmt.Errorf("%w: %s", ErrInvalidArguments, purchaseUsage)
	}

	amounts, err := parseAmounts(cmd.Args[2:4])
	if err != nil {
		return models.PurchaseInput{}, fmt.Errorf("%w: %s", ErrInvalidArguments, purchaseUsage)
	}

	in := models.PurchaseInput{
		SupplierName: cmd.Args[0],
		ProductName:  cmd.Args[1],
		Weight:       &amounts[0],
		CostPrice:    &amounts[1],
	}
	if len(cmd.Args) == 5 {
		in.ReceiveDate = cmd.Args[4]
	}
	return in, nil
}

// parseAmounts accepts "1,250.50" style thousands separators. Inf and NaN
// parse but cannot be stored, so they are rejected here.
func parseAmounts(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("amount %q is not a finite number", v)
		}
		out[i] = f
	}
	return out, nil
}
