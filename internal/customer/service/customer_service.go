package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vmorozov/customer-hub/internal/common/clock"
	"github.com/vmorozov/customer-hub/internal/common/constants"
	commoncrypto "github.com/vmorozov/customer-hub/internal/common/crypto"
	"github.com/vmorozov/customer-hub/internal/common/db"
	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	"github.com/vmorozov/customer-hub/internal/customer/domain"
	"github.com/vmorozov/customer-hub/internal/customer/repository"
	"github.com/vmorozov/customer-hub/internal/observability/metrics"
)

type CustomerService struct {
	repo         repository.Repository
	idGen        commoncrypto.IDGenerator
	clock        clock.Clock
	validate     *validator.Validate
	defaultLimit int
	log          *logger.Logger
}

func NewCustomerService(
	repo repository.Repository,
	idGen commoncrypto.IDGenerator,
	clk clock.Clock,
	defaultLimit int,
	log *logger.Logger,
) *CustomerService {
	if defaultLimit <= 0 {
		defaultLimit = constants.DefaultPageLimit
	}
	return &CustomerService{
		repo:         repo,
		idGen:        idGen,
		clock:        clk,
		validate:     newValidator(),
		defaultLimit: defaultLimit,
		log:          log,
	}
}

type ListInput struct {
	Page   int
	Limit  int
	Search string
}

// List returns one page of customers, newest first. Search is a
// case-insensitive substring match against name or phone.
func (s *CustomerService) List(ctx context.Context, input ListInput) (domain.Page, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}

	search := strings.TrimSpace(input.Search)
	if len(search) > constants.MaxSearchQueryLength {
		search = search[:constants.MaxSearchQueryLength]
	}
	if search != "" {
		metrics.CustomerSearches.Inc()
	}

	var total int64
	err := db.RetryWithBackoff(ctx, s.log, db.DefaultRetryConfig, func() error {
		var countErr error
		total, countErr = s.repo.Count(ctx, search)
		return countErr
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_customers_count_failed",
		}).Errorf("list customers failed: %v", err)
		return domain.Page{}, commonerrors.InternalError("Server error while retrieving customers", err)
	}

	offset := (page - 1) * limit
	customers := []domain.Customer{}
	if int64(offset) < total {
		err = db.RetryWithBackoff(ctx, s.log, db.DefaultRetryConfig, func() error {
			var listErr error
			customers, listErr = s.repo.List(ctx, offset, limit, search)
			return listErr
		})
		if err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"action": "list_customers_failed",
			}).Errorf("list customers failed: %v", err)
			return domain.Page{}, commonerrors.InternalError("Server error while retrieving customers", err)
		}
	}

	return domain.Page{
		Customers:  customers,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	if !isValidID(id) {
		return domain.Customer{}, ErrCustomerNotFound
	}

	customer, err := s.repo.FindByID(ctx, domain.ID(id))
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"customer_id": id,
			"action":      "get_customer_failed",
		}).Errorf("get customer failed: %v", err)
		return domain.Customer{}, commonerrors.InternalError("Server error while retrieving customer", err)
	}

	return customer, nil
}

// Create validates all field constraints before touching the repository.
func (s *CustomerService) Create(ctx context.Context, fields domain.Fields) (domain.Customer, error) {
	fields = trimFields(fields)

	if fieldErrs := s.validateCustomer(fields); len(fieldErrs) > 0 {
		return domain.Customer{}, ErrValidation.WithFields(fieldErrs)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.Customer{}, commonerrors.InternalError("Server error while creating customer", err)
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        domain.ID(id),
		Name:      fields.Name,
		Address:   fields.Address,
		Phone:     fields.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "create_customer_failed",
		}).Errorf("create customer failed: %v", err)
		return domain.Customer{}, commonerrors.InternalError("Server error while creating customer", err)
	}

	metrics.CustomersCreated.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"customer_id": id,
		"action":      "customer_created",
	}).Info("customer created")

	return customer, nil
}

// Update is a full replacement of the three mutable fields.
func (s *CustomerService) Update(ctx context.Context, id string, fields domain.Fields) (domain.Customer, error) {
	fields = trimFields(fields)

	if fieldErrs := s.validateCustomer(fields); len(fieldErrs) > 0 {
		return domain.Customer{}, ErrValidation.WithFields(fieldErrs)
	}

	if !isValidID(id) {
		return domain.Customer{}, ErrCustomerNotFound
	}

	customer, err := s.repo.Update(ctx, domain.ID(id), fields, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"customer_id": id,
			"action":      "update_customer_failed",
		}).Errorf("update customer failed: %v", err)
		return domain.Customer{}, commonerrors.InternalError("Server error while updating customer", err)
	}

	metrics.CustomersUpdated.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"customer_id": id,
		"action":      "customer_updated",
	}).Info("customer updated")

	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrCustomerNotFound
	}

	if err := s.repo.Delete(ctx, domain.ID(id)); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"customer_id": id,
			"action":      "delete_customer_failed",
		}).Errorf("delete customer failed: %v", err)
		return commonerrors.InternalError("Server error while deleting customer", err)
	}

	metrics.CustomersDeleted.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"customer_id": id,
		"action":      "customer_deleted",
	}).Info("customer deleted")

	return nil
}

func (s *CustomerService) validateCustomer(fields domain.Fields) []commonerrors.FieldError {
	return validateFields(s.validate, customerInput{
		Name:    fields.Name,
		Address: fields.Address,
		Phone:   fields.Phone,
	})
}

func trimFields(fields domain.Fields) domain.Fields {
	return domain.Fields{
		Name:    strings.TrimSpace(fields.Name),
		Address: strings.TrimSpace(fields.Address),
		Phone:   strings.TrimSpace(fields.Phone),
	}
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
