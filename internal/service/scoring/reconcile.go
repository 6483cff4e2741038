package scoring

import "speech-assessment-service/internal/models"

// Reconcile walks the alignment blocks and produces a single word list in
// which every reference token and every recognized word is accounted for
// exactly once. Recognized words aligned under insert or replace blocks are
// tagged Insertion, whatever the engine said. Reference tokens under delete
// or replace blocks become Omission placeholders - except a trailing omission
// while recognition is still in progress, since a trailing gap may simply
// mean more audio is on the way.
//
// The input word slice is never mutated; the returned list is freshly built
// and owned by the caller.
func Reconcile(blocks []Block, ref []string, words []models.RecognizedWord, status Status) []models.RecognizedWord {
	reconciled := make([]models.RecognizedWord, 0, len(ref)+len(words))

	for _, b := range blocks {
		switch b.Op {
		case OpEqual:
			reconciled = append(reconciled, words[b.HypStart:b.HypEnd]...)
		case OpInsert, OpReplace:
			for _, w := range words[b.HypStart:b.HypEnd] {
				w.ErrorType = models.ErrorInsertion
				reconciled = append(reconciled, w)
			}
		}

		if b.Op != OpDelete && b.Op != OpReplace {
			continue
		}
		if b.RefEnd == len(ref) && !status.IsTerminal() {
			// Trailing omission: don't judge it until recognition concludes.
			continue
		}
		for _, tok := range ref[b.RefStart:b.RefEnd] {
			reconciled = append(reconciled, models.RecognizedWord{
				Text:      tok,
				ErrorType: models.ErrorOmission,
			})
		}
	}
	return reconciled
}
