package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ViewQuery is the query string accepted by every view endpoint.
type ViewQuery struct {
	Timeframe string `form:"timeframe" binding:"omitempty,timeframe"`
}

// TimeframeValue returns the normalized timeframe. A value that does not parse
// is passed through unchanged so the service rejects it.
func (q ViewQuery) TimeframeValue() domain.Timeframe {
	tf, err := domain.ParseTimeframe(q.Timeframe)
	if err != nil {
		return domain.Timeframe(q.Timeframe)
	}
	return tf
}

// PaymentMethodQuery drives the payment method drill-down. Selected is the
// method currently shown by the caller and Method the one just clicked.
type PaymentMethodQuery struct {
	ViewQuery
	Method   string `form:"method"`
	Selected string `form:"selected"`
}

// BoatBillsQuery lists one boat's bills with optional keyset pagination.
type BoatBillsQuery struct {
	ViewQuery
	Boat      string `form:"boat"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	PageToken string `form:"pageToken"`
}

// Options converts the query into service view options.
func (q BoatBillsQuery) Options() domain.ViewOptions {
	return domain.ViewOptions{
		Timeframe: q.TimeframeValue(),
		BoatName:  q.Boat,
		Limit:     q.Limit,
		PageToken: q.PageToken,
	}
}

// GenericViewQuery carries every view parameter for /views/:name and /export.
type GenericViewQuery struct {
	ViewQuery
	Method    string `form:"method"`
	Boat      string `form:"boat"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	PageToken string `form:"pageToken"`
}

// Options converts the query into service view options.
func (q GenericViewQuery) Options() domain.ViewOptions {
	return domain.ViewOptions{
		Timeframe:     q.TimeframeValue(),
		PaymentMethod: q.Method,
		BoatName:      q.Boat,
		Limit:         q.Limit,
		PageToken:     q.PageToken,
	}
}

// ExportQuery selects a view and a document format.
type ExportQuery struct {
	GenericViewQuery
	View   string `form:"view" binding:"required"`
	Format string `form:"format" binding:"required,oneof=xlsx pdf csv XLSX PDF CSV"`
}

// PaymentMethodDetailResponse is the drill-down after applying the toggle.
// Details is empty when the toggle cleared the selection.
type PaymentMethodDetailResponse struct {
	Selected string                      `json:"selected"`
	Details  []domain.PresentationDetail `json:"details"`
}

// ViewListResponse lists the views served by /views/:name.
type ViewListResponse struct {
	Views []domain.ViewName `json:"views"`
}

func validateTimeframe(fl validator.FieldLevel) bool {
	return domain.IsValidTimeframe(fl.Field().String())
}

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("timeframe", validateTimeframe)
}

// BindingErrorMessage turns validator errors into a short client message.
func BindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid query parameters: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "timeframe":
			msgs = append(msgs, fmt.Sprintf("%s must be one of all, 1m, 3m, 6m", strings.ToLower(fe.Field())))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", strings.ToLower(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
