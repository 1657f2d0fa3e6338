package domain

// Deduplicate decides which candidates are new and which are already in
// the ledger. Identity is the (account, source_hash) pair; the hash is
// computed here for any candidate that lacks one.
//
// Statement exports overlap across download windows, so membership is a
// multiset test: the Nth occurrence of a hash within one batch is
// admitted only if the ledger holds fewer than N transactions with that
// hash. Two identical coffee purchases on the same day therefore both
// survive a fresh import, while re-importing the same file admits
// nothing.
//
// Pure over the ledger: candidates are annotated but the ledger is not
// mutated, the caller appends the admitted transactions itself.
func Deduplicate(l *Ledger, candidates []*Transaction) (admitted []*Transaction, duplicates int) {
	seen := make(map[hashKey]int)
	for _, c := range candidates {
		if c.SourceHash == "" {
			c.SourceHash = ComputeSourceHash(c.AccountID, c.Date, c.Amount, c.RawDescription)
		}
		key := hashKey{c.AccountID, c.SourceHash}
		seen[key]++
		if l.HashCount(c.AccountID, c.SourceHash) >= seen[key] {
			duplicates++
			continue
		}
		admitted = append(admitted, c)
	}
	return admitted, duplicates
}
