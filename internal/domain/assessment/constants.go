package assessment

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindRate       Kind = "rate"
	KindCount      Kind = "count"

	CategoryFinancial = "Financial"
	CategoryProcesses = "Processes"
	CategoryCustomers = "Customers"
	CategoryTeams     = "Teams"

	VariantStandard = "standard"
	VariantExtended = "extended"

	defaultRateUnit = "hrs/unit"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPercentage, KindRate, KindCount:
		return true
	}
	return false
}
