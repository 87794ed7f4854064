package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&CompanyModel{},
		&SubscriberModel{},
		&PartnerModel{},
		&PaymentModel{},
		&WebhookEventModel{},
		&CadenceMessageModel{},
		&OperatorModel{},
	}
}
