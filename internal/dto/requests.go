package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateBidRequest — запрос на создание ставки.
type CreateBidRequest struct {
	JobID          models.ID `json:"job_id" validate:"required"`
	BidType        string    `json:"bid_type" validate:"required,oneof=fixed hourly"`
	TotalAmount    *float64  `json:"total_amount,omitempty" validate:"omitempty,gt=0"`
	HourlyRate     *float64  `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty" validate:"omitempty,gt=0"`
	DeliveryDays   int       `json:"delivery_time_days" validate:"required,gt=0"`
	ProposalText   string    `json:"proposal_text" validate:"required,min=10,max=5000"`
}

// Validate проверяет запрос, включая кросс-полевые правила по типу ставки.
func (r CreateBidRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные данные ставки")
	}

	switch r.BidType {
	case models.BidTypeFixed:
		if r.TotalAmount == nil {
			return apperror.New(apperror.ErrCodeValidation, "для фиксированной ставки требуется total_amount")
		}
	case models.BidTypeHourly:
		if r.HourlyRate == nil || r.EstimatedHours == nil {
			return apperror.New(apperror.ErrCodeValidation, "для почасовой ставки требуются hourly_rate и estimated_hours")
		}
	}
	return nil
}

// UpdateBidRequest — частичное обновление ставки; nil-поля не трогаются.
type UpdateBidRequest struct {
	TotalAmount    *float64 `json:"total_amount,omitempty" validate:"omitempty,gt=0"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gt=0"`
	DeliveryDays   *int     `json:"delivery_time_days,omitempty" validate:"omitempty,gt=0"`
	ProposalText   *string  `json:"proposal_text,omitempty" validate:"omitempty,min=10,max=5000"`
}

func (r UpdateBidRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные данные обновления")
	}
	return nil
}

// UpdateBidStatusRequest — смена статуса ставки (accept/reject).
type UpdateBidStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
	Reason string `json:"reason,omitempty" validate:"omitempty,min=3,max=1000"`
}

func (r UpdateBidStatusRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный запрос смены статуса")
	}
	if r.Status == models.BidStatusRejected && r.Reason == "" {
		return apperror.New(apperror.ErrCodeValidation, "для отклонения ставки укажите причину")
	}
	return nil
}

// TemplateRequest — создание/обновление шаблона предложения.
type TemplateRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=10,max=5000"`
}

func (r TemplateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный шаблон")
	}
	return nil
}

// CardDetails — реквизиты карты для встроенной формы оплаты.
// Дальше клиента не живут: уходят на платёжный эндпоинт и не логируются.
type CardDetails struct {
	Number   string `json:"number" validate:"required,numeric,min=12,max=19"`
	Holder   string `json:"holder" validate:"required,min=2,max=100"`
	ExpMonth int    `json:"exp_month" validate:"required,min=1,max=12"`
	ExpYear  int    `json:"exp_year" validate:"required,min=2024,max=2099"`
	CVC      string `json:"cvc" validate:"required,numeric,len=3"`
}

func (c CardDetails) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные реквизиты карты")
	}
	return nil
}
