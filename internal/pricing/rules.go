// Package pricing holds the charge and volume credit rules for theater
// performances.  Every function here is pure: the result depends only on
// the performance and its play.
package pricing

import "github.com/iliyamo/theater-billing/internal/model"

// Amount returns the charge in cents for a performance of play.  A play
// whose genre has no pricing rule yields an *UnknownPlayTypeError carrying
// the raw type tag.
func Amount(perf model.Performance, play model.Play) (int64, error) {
	audience := int64(perf.Audience)

	var result int64
	switch play.Genre() {
	case model.GenreTragedy:
		result = TragedyBaseAmount
		if audience > TragedyAudienceThreshold {
			result += TragedyOverBaseCapacityPerPerson * (audience - TragedyAudienceThreshold)
		}
	case model.GenreComedy:
		result = ComedyBaseAmount
		if audience > ComedyAudienceThreshold {
			result += ComedyOverBaseCapacityAmount +
				ComedyOverBaseCapacityPerPerson*(audience-ComedyAudienceThreshold)
		}
		result += ComedyAmountPerAudience * audience
	case model.GenreHistory:
		result = HistoryBaseAmount
		if audience > HistoryAudienceThreshold {
			result += HistoryOverBaseCapacityPerPerson * (audience - HistoryAudienceThreshold)
		}
	case model.GenrePastoral:
		result = PastoralBaseAmount
		if audience > PastoralAudienceThreshold {
			result += PastoralOverBaseCapacityPerPerson * (audience - PastoralAudienceThreshold)
		}
	default:
		return 0, &UnknownPlayTypeError{Type: play.Type}
	}
	return result, nil
}

// VolumeCredits returns the loyalty credits earned by a performance.  It
// never fails: genres without a dedicated rule, unknown ones included, use
// the base threshold.
func VolumeCredits(perf model.Performance, play model.Play) int {
	audience := perf.Audience

	var result int
	switch play.Genre() {
	case model.GenreHistory:
		result = max(audience-HistoryVolumeCreditThreshold, 0)
	case model.GenrePastoral:
		// one bonus credit for every two attendees
		result = max(audience-PastoralVolumeCreditThreshold, 0) + audience/2
	default:
		result = max(audience-BaseVolumeCreditThreshold, 0)
	}

	if play.Genre() == model.GenreComedy {
		result += audience / ComedyExtraVolumeFactor
	}
	return result
}
