package core

import "sort"

// ComputeBalance sums the amounts of the given transactions. The empty set
// yields 0. Order of the input does not affect the result.
func ComputeBalance(transactions []CardTransaction) float64 {
	var total float64
	for _, tx := range transactions {
		total += tx.Amount
	}
	return total
}

// FilterByCategories keeps the transactions that carry at least one of the
// selected categories. An empty selection is the identity filter: the full
// input comes back unfiltered. This pass-through default is deliberate UX
// behavior, not a shortcut.
func FilterByCategories(transactions []CardTransaction, selected []string) []CardTransaction {
	if len(selected) == 0 {
		return transactions
	}
	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	out := make([]CardTransaction, 0, len(transactions))
	for _, tx := range transactions {
		for _, id := range tx.CategoryIDs {
			if _, ok := want[id]; ok {
				out = append(out, tx)
				break
			}
		}
	}
	return out
}

// SortCategoriesByRecency orders categories newest-first by creation
// timestamp. Equal timestamps tie-break on id so the order is deterministic.
// The input slice is not modified.
func SortCategoriesByRecency(categories []TransactionCategory) []TransactionCategory {
	out := make([]TransactionCategory, len(categories))
	copy(out, categories)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
