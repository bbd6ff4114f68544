// Package ledger validates and records sales and purchases and serves the
// date-filtered reads every view starts from.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/query"
)

// Store is the record persistence the ledger writes through.
type Store interface {
	InsertSale(ctx context.Context, sale models.Sale) (models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	DeleteSale(ctx context.Context, id string) (bool, error)
	InsertPurchase(ctx context.Context, purchase models.Purchase) (models.Purchase, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	DeletePurchase(ctx context.Context, id string) (bool, error)
}

// Mirror receives a copy of every inserted record. Failures are logged only.
type Mirror interface {
	MirrorSale(ctx context.Context, sale models.Sale) error
	MirrorPurchase(ctx context.Context, purchase models.Purchase) error
}

// Observer is told about every successful mutation.
type Observer interface {
	RecordAdded(kind models.RecordKind, amounts models.Amounts)
	RecordDeleted(kind models.RecordKind)
}

// Service implements record entry and date-filtered reads.
type Service struct {
	store    Store
	mirror   Mirror
	observer Observer
	clock    clock.Clock
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService wires a ledger. mirror may be nil.
func NewService(store Store, clk clock.Clock, mirror Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Service{store: store, mirror: mirror, clock: clk, validate: v, logger: logger}
}

// WithObserver attaches o and returns s.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// AddSale validates a submission, computes its profit and stores it.
func (s *Service) AddSale(ctx context.Context, in models.SaleInput) (models.Sale, error) {
	in.Normalize()
	if err := s.check(in); err != nil {
		return models.Sale{}, err
	}
	date, err := s.entryDate("saleDate", in.SaleDate)
	if err != nil {
		return models.Sale{}, err
	}

	sale, err := s.store.InsertSale(ctx, models.Sale{
		CustomerName: in.CustomerName,
		ProductName:  in.ProductName,
		Weight:       *in.Weight,
		CostPrice:    *in.CostPrice,
		SellingPrice: *in.SellingPrice,
		Profit:       *in.SellingPrice - *in.CostPrice,
		SaleDate:     date,
	})
	if err != nil {
		return models.Sale{}, fmt.Errorf("save sale: %w", err)
	}

	s.logger.Info("sale recorded",
		zap.String("id", sale.ID),
		zap.String("date", sale.SaleDate),
		zap.String("product", sale.ProductName),
		zap.Float64("profit", sale.Profit))

	if s.observer != nil {
		s.observer.RecordAdded(models.KindSale, sale.Amounts())
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorSale(ctx, sale); err != nil {
			s.logger.Warn("sale mirror failed", zap.String("id", sale.ID), zap.Error(err))
		}
	}
	return sale, nil
}

// AddPurchase validates a submission and stores it.
func (s *Service) AddPurchase(ctx context.Context, in models.PurchaseInput) (models.Purchase, error) {
	in.Normalize()
	if err := s.check(in); err != nil {
		return models.Purchase{}, err
	}
	date, err := s.entryDate("receiveDate", in.ReceiveDate)
	if err != nil {
		return models.Purchase{}, err
	}

	purchase, err := s.store.InsertPurchase(ctx, models.Purchase{
		SupplierName: in.SupplierName,
		ProductName:  in.ProductName,
		Weight:       *in.Weight,
		CostPrice:    *in.CostPrice,
		ReceiveDate:  date,
	})
	if err != nil {
		return models.Purchase{}, fmt.Errorf("save purchase: %w", err)
	}

	s.logger.Info("purchase recorded",
		zap.String("id", purchase.ID),
		zap.String("date", purchase.ReceiveDate),
		zap.String("product", purchase.ProductName))

	if s.observer != nil {
		s.observer.RecordAdded(models.KindPurchase, purchase.Amounts())
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorPurchase(ctx, purchase); err != nil {
			s.logger.Warn("purchase mirror failed", zap.String("id", purchase.ID), zap.Error(err))
		}
	}
	return purchase, nil
}

// DeleteSale removes a sale, returning models.ErrRecordNotFound for unknown ids.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	removed, err := s.store.DeleteSale(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if !removed {
		return fmt.Errorf("sale %s: %w", id, models.ErrRecordNotFound)
	}
	s.logger.Info("sale deleted", zap.String("id", id))
	if s.observer != nil {
		s.observer.RecordDeleted(models.KindSale)
	}
	return nil
}

// DeletePurchase removes a purchase, returning models.ErrRecordNotFound for unknown ids.
func (s *Service) DeletePurchase(ctx context.Context, id string) error {
	removed, err := s.store.DeletePurchase(ctx, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if !removed {
		return fmt.Errorf("purchase %s: %w", id, models.ErrRecordNotFound)
	}
	s.logger.Info("purchase deleted", zap.String("id", id))
	if s.observer != nil {
		s.observer.RecordDeleted(models.KindPurchase)
	}
	return nil
}

// AllSales returns the full sales scan.
func (s *Service) AllSales(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListSales(ctx)
}

// AllPurchases returns the full purchases scan.
func (s *Service) AllPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.store.ListPurchases(ctx)
}

// SalesByDate lists one day's sales, most recently entered first.
func (s *Service) SalesByDate(ctx context.Context, date string) ([]models.Sale, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	all, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByExactDate(all, date), nil
}

// SalesInRange lists sales dated within [start, end], most recent date first.
func (s *Service) SalesInRange(ctx context.Context, start, end string) ([]models.Sale, error) {
	if err := models.ValidateRange(start, end); err != nil {
		return nil, err
	}
	all, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByDateRange(all, start, end), nil
}

// PurchasesByDate lists one day's purchases, most recently entered first.
func (s *Service) PurchasesByDate(ctx context.Context, date string) ([]models.Purchase, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	all, err := s.store.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByExactDate(all, date), nil
}

// PurchasesInRange lists purchases dated within [start, end], most recent date first.
func (s *Service) PurchasesInRange(ctx context.Context, start, end string) ([]models.Purchase, error) {
	if err := models.ValidateRange(start, end); err != nil {
		return nil, err
	}
	all, err := s.store.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	return query.ByDateRange(all, start, end), nil
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	fe := fieldErrs[0]
	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gte":
		reason = "must not be negative"
	}
	return &models.ValidationError{Field: fe.Field(), Reason: reason}
}

// entryDate defaults an empty date to today and rejects malformed or future dates.
func (s *Service) entryDate(field, value string) (string, error) {
	today := s.clock.Today()
	if value == "" {
		return today, nil
	}
	if _, err := models.ParseDate(value); err != nil {
		return "", &models.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	if value > today {
		return "", &models.ValidationError{Field: field, Reason: "must not be in the future"}
	}
	return value, nil
}
