package shared

// Provider identifies a payment gateway.
type Provider string

const (
	ProviderAsaas  Provider = "asaas"
	ProviderStripe Provider = "stripe"
)

func (p Provider) IsValid() bool {
	return p == ProviderAsaas || p == ProviderStripe
}

func (p Provider) String() string {
	return string(p)
}
