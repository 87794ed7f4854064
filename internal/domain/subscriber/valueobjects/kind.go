package valueobjects

type Kind string

const (
	KindIndividual Kind = "individual"
	KindCorporate  Kind = "corporate"
)

func (k Kind) IsValid() bool {
	return k == KindIndividual || k == KindCorporate
}

func (k Kind) String() string {
	return string(k)
}
