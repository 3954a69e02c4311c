package planner

import (
	"slices"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// letterTypes returns the letter types the strategy implies for item, in
// planning order, without duplicates.
func (s *Service) letterTypes(item *domain.NegativeItem, strategy domain.StrategyKind, base domain.LetterType) []domain.LetterType {
	switch strategy {
	case domain.StrategyDual:
		out := []domain.LetterType{base}
		if slices.Contains(s.cfg.CollectionTypes, item.AccountType) && base != domain.LetterTypeDebtValidation {
			out = append(out, domain.LetterTypeDebtValidation)
		}
		return out
	case domain.StrategyByAccountType:
		if lt, ok := s.cfg.AccountLetters[item.AccountType]; ok {
			return []domain.LetterType{lt}
		}
		return []domain.LetterType{domain.LetterTypeInitialDispute}
	default:
		return []domain.LetterType{base}
	}
}

// targetsFor returns the recipients of a letter type for item: the flagged
// bureaus for bureau letters, the furnisher otherwise.
func targetsFor(item *domain.NegativeItem, lt domain.LetterType) []domain.Target {
	if !lt.AddressedToBureau() {
		return []domain.Target{domain.TargetFurnisher}
	}
	bureaus := item.Bureaus()
	out := make([]domain.Target, 0, len(bureaus))
	for _, b := range bureaus {
		out = append(out, domain.BureauTarget(b))
	}
	return out
}

// tuples expands item into the dispute tuples the request asks for. A non-nil
// only keeps tuples addressed to that target.
func (s *Service) tuples(item *domain.NegativeItem, strategy domain.StrategyKind, base domain.LetterType, only *domain.Target) []domain.DisputeKey {
	var out []domain.DisputeKey
	for _, lt := range s.letterTypes(item, strategy, base) {
		for _, target := range targetsFor(item, lt) {
			if only != nil && target != *only {
				continue
			}
			out = append(out, domain.DisputeKey{NegativeItemID: item.ID, Target: target, LetterType: lt})
		}
	}
	return out
}
