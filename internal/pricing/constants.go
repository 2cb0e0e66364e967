package pricing

// Charge rules.  Amounts are in cents.
const (
	TragedyBaseAmount                = 40000
	TragedyAudienceThreshold         = 30
	TragedyOverBaseCapacityPerPerson = 1000

	ComedyBaseAmount                = 30000
	ComedyAudienceThreshold         = 20
	ComedyOverBaseCapacityAmount    = 10000
	ComedyOverBaseCapacityPerPerson = 500
	ComedyAmountPerAudience         = 300

	HistoryBaseAmount                = 20000
	HistoryAudienceThreshold         = 20
	HistoryOverBaseCapacityPerPerson = 1000

	PastoralBaseAmount                = 40000
	PastoralAudienceThreshold         = 20
	PastoralOverBaseCapacityPerPerson = 2500
)

// Volume credit rules.
const (
	BaseVolumeCreditThreshold     = 30
	HistoryVolumeCreditThreshold  = 20
	PastoralVolumeCreditThreshold = 20
	ComedyExtraVolumeFactor       = 5
)
