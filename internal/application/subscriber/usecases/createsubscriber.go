package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beneficlub/backoffice/internal/application/subscriber/dto"
	"github.com/beneficlub/backoffice/internal/domain/company"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/domain/subscriber"
	vo "github.com/beneficlub/backoffice/internal/domain/subscriber/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type CreateSubscriberCommand struct {
	Kind         string
	CompanySID   string
	Name         string
	Document     string
	Email        string
	Phone        string
	PlanName     string
	Amount       string
	BillingCycle string
	// NextDueDate is a YYYY-MM-DD business date.
	NextDueDate string
}

// CreateSubscriberUseCase registers a subscriber. Corporate subscribers take
// a seat of their company; the seat count and the insert share a transaction.
type CreateSubscriberUseCase struct {
	subscriberRepo subscriber.Repository
	companyRepo    company.Repository
	txManager      db.Transactor
	logger         logger.Interface
}

func NewCreateSubscriberUseCase(
	subscriberRepo subscriber.Repository,
	companyRepo company.Repository,
	txManager db.Transactor,
	logger logger.Interface,
) *CreateSubscriberUseCase {
	return &CreateSubscriberUseCase{
		subscriberRepo: subscriberRepo,
		companyRepo:    companyRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

func (uc *CreateSubscriberUseCase) Execute(ctx context.Context, cmd CreateSubscriberCommand) (*dto.SubscriberDTO, error) {
	params, err := uc.buildParams(cmd)
	if err != nil {
		return nil, err
	}

	var (
		comp    *company.Company
		created *subscriber.Subscriber
	)
	if params.Kind == vo.KindCorporate {
		if cmd.CompanySID == "" {
			return nil, apperrors.NewValidationError("company_sid is required for corporate subscribers")
		}
		comp, err = uc.companyRepo.GetBySID(ctx, cmd.CompanySID)
		if err != nil {
			uc.logger.Errorw("failed to load company", "sid", cmd.CompanySID, "error", err)
			return nil, apperrors.NewInternalError("failed to create subscriber")
		}
		if comp == nil {
			return nil, apperrors.NewNotFoundError("company not found", cmd.CompanySID)
		}
		cid := comp.ID()
		params.CompanyID = &cid
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if comp != nil {
			used, err := uc.subscriberRepo.CountByCompany(txCtx, comp.ID())
			if err != nil {
				return err
			}
			if err := comp.CanAddSeat(used); err != nil {
				return err
			}
		}

		sub, err := subscriber.NewSubscriber(params)
		if err != nil {
			return err
		}
		if err := uc.subscriberRepo.Create(txCtx, sub); err != nil {
			return err
		}
		created = sub
		return nil
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Infow("subscriber created", "sid", created.SID(), "kind", created.Kind())
	companySID := ""
	if comp != nil {
		companySID = comp.SID()
	}
	return dto.ToSubscriberDTO(created, companySID), nil
}

func (uc *CreateSubscriberUseCase) buildParams(cmd CreateSubscriberCommand) (subscriber.CreateParams, error) {
	kind := vo.Kind(cmd.Kind)
	if cmd.Kind == "" {
		kind = vo.KindIndividual
	}

	var amount shared.Money
	if cmd.Amount != "" {
		m, err := shared.ParseMoney(cmd.Amount, shared.CurrencyBRL)
		if err != nil {
			return subscriber.CreateParams{}, apperrors.NewValidationError("invalid amount", cmd.Amount)
		}
		amount = m
	}

	var cycle vo.BillingCycle
	if cmd.BillingCycle != "" {
		c, err := vo.NewBillingCycle(cmd.BillingCycle)
		if err != nil {
			return subscriber.CreateParams{}, apperrors.NewValidationError("invalid billing cycle", cmd.BillingCycle)
		}
		cycle = c
	}

	var due *time.Time
	if cmd.NextDueDate != "" {
		d, err := biztime.ParseDate(cmd.NextDueDate)
		if err != nil {
			return subscriber.CreateParams{}, apperrors.NewValidationError("invalid next_due_date", cmd.NextDueDate)
		}
		due = &d
	}

	return subscriber.CreateParams{
		Kind:         kind,
		Name:         cmd.Name,
		Document:     cmd.Document,
		Email:        cmd.Email,
		Phone:        cmd.Phone,
		PlanName:     cmd.PlanName,
		Amount:       amount,
		BillingCycle: cycle,
		NextDueDate:  due,
	}, nil
}

func (uc *CreateSubscriberUseCase) mapError(err error) error {
	switch {
	case errors.Is(err, subscriber.ErrDocumentExists):
		return apperrors.NewConflictError("subscriber document already registered")
	case errors.Is(err, company.ErrSeatLimit), errors.Is(err, company.ErrCompanyInactive):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, subscriber.ErrInvalidDocument),
		errors.Is(err, subscriber.ErrNameRequired),
		errors.Is(err, subscriber.ErrInvalidKind),
		errors.Is(err, subscriber.ErrCompanyRequired),
		errors.Is(err, vo.ErrInvalidBillingCycle):
		return apperrors.NewValidationError(err.Error())
	}
	uc.logger.Errorw("failed to create subscriber", "error", err)
	return apperrors.NewInternalError("failed to create subscriber", fmt.Sprint(err))
}
