package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Gin context keys
	ContextKeyOperatorID = "operator_id"
	ContextKeyRequestID  = "request_id"

	ErrMsgInternalServerError = "Internal server error occurred"
)

const (
	TableSubscribers     = "subscribers"
	TableCompanies       = "companies"
	TablePartners        = "partners"
	TablePayments        = "payments"
	TableWebhookEvents   = "webhook_events"
	TableCadenceMessages = "cadence_messages"
	TableOperators       = "operators"
)
