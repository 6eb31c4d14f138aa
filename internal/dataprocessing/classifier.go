package dataprocessing

import "tradepulse/pkg/contracts/domain"

// Classify decides the outcome of a trade. A win needs the settlement rate
// strictly beyond the reference rate in the predicted direction, so equal
// rates lose.
func Classify(direction domain.Direction, reference, settlement float64) domain.Outcome {
	switch direction {
	case domain.DirectionHigh:
		if settlement > reference {
			return domain.OutcomeWin
		}
		return domain.OutcomeLoss
	case domain.DirectionLow:
		if settlement < reference {
			return domain.OutcomeWin
		}
		return domain.OutcomeLoss
	default:
		return domain.OutcomeUndetermined
	}
}
