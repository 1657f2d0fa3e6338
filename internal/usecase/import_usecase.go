package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/statement"
)

// ImportUseCase runs statement files through normalize, dedup and
// append.
type ImportUseCase struct {
	ledgerStore  LedgerStore
	accountStore AccountStore
	ruleStore    RuleStore
	idGen        IDGenerator
	cache        ReportCache
}

// NewImportUseCase creates a new ImportUseCase. cache may be nil.
func NewImportUseCase(
	ledgerStore LedgerStore,
	accountStore AccountStore,
	ruleStore RuleStore,
	idGen IDGenerator,
	cache ReportCache,
) *ImportUseCase {
	return &ImportUseCase{
		ledgerStore:  ledgerStore,
		accountStore: accountStore,
		ruleStore:    ruleStore,
		idGen:        idGen,
		cache:        cache,
	}
}

// ImportFile is one statement source within a batch.
type ImportFile struct {
	AccountID string
	Source    statement.RowSource
}

// ImportInput imports a single statement file.
type ImportInput struct {
	AccountID string
	Source    statement.RowSource
	Strict    bool
}

// ImportBatchInput imports several statement files in one ledger write,
// the usual shape when refreshing every account at once.
type ImportBatchInput struct {
	Files  []ImportFile
	Strict bool
}

// ImportResult reports what an import did. Malformed rows are reported,
// never silently dropped.
type ImportResult struct {
	Admitted        int
	Duplicates      int
	AutoCategorized int
	Malformed       []*statement.RowError
	Transactions    []*domain.Transaction
}

type fileCandidates struct {
	candidates []*domain.Transaction
	rowErrs    []*statement.RowError
}

// Import runs one statement file. Well-formed rows are admitted even
// when others are malformed unless Strict is set, in which case any
// malformed row aborts the import before anything is written.
func (uc *ImportUseCase) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	return uc.ImportBatch(ctx, ImportBatchInput{
		Files:  []ImportFile{{AccountID: input.AccountID, Source: input.Source}},
		Strict: input.Strict,
	})
}

// ImportBatch imports several files. Normalization runs concurrently;
// dedup and the ledger mutation are serialized in one write session so
// the whole batch commits together.
func (uc *ImportUseCase) ImportBatch(ctx context.Context, input ImportBatchInput) (*ImportResult, error) {
	if len(input.Files) == 0 {
		return &ImportResult{}, nil
	}

	// 1. Normalize every file concurrently. The ledger is untouched
	// until every file has parsed.
	normalized := make([]*fileCandidates, len(input.Files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range input.Files {
		i, f := i, f
		g.Go(func() error {
			fc, err := uc.normalizeFile(gctx, f)
			if err != nil {
				return err
			}
			normalized[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, fc := range normalized {
		result.Malformed = append(result.Malformed, fc.rowErrs...)
	}

	// 2. Strict mode is all or nothing: report the rows and stop.
	if input.Strict && len(result.Malformed) > 0 {
		return result, fmt.Errorf("%w: %d rows", domain.ErrStrictImport, len(result.Malformed))
	}

	// 3. One exclusive write session covers the whole batch.
	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	rules, err := uc.ruleStore.List(ctx)
	if err != nil {
		return nil, err
	}

	// 4. Dedup and append file by file, so overlap between files in
	// the same batch dedups exactly like overlap with the ledger.
	ledger := session.Ledger()
	now := time.Now().UTC()
	for _, fc := range normalized {
		admitted, duplicates := domain.Deduplicate(ledger, fc.candidates)
		result.Duplicates += duplicates
		result.AutoCategorized += domain.ApplyRules(rules, admitted)

		for _, txn := range admitted {
			txn.ID = uc.idGen.Generate()
			txn.CreatedAt = now
			if err := ledger.Append(txn); err != nil {
				return nil, err
			}
		}
		result.Admitted += len(admitted)
		result.Transactions = append(result.Transactions, admitted...)
	}

	// 5. Commit, then drop the stale report months.
	months := ledger.TouchedMonths()
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	invalidateMonths(ctx, uc.cache, months)

	return result, nil
}

func (uc *ImportUseCase) normalizeFile(ctx context.Context, f ImportFile) (*fileCandidates, error) {
	account, err := uc.accountStore.GetByID(ctx, f.AccountID)
	if err != nil {
		return nil, err
	}
	schema, err := statement.Resolve(account.Institution)
	if err != nil {
		return nil, err
	}

	n := statement.NewNormalizer(schema, account.ID, f.Source)
	candidates, err := n.Collect()
	if err != nil {
		return nil, fmt.Errorf("normalize statement for account %s: %w", account.ID, err)
	}
	return &fileCandidates{candidates: candidates, rowErrs: n.RowErrors()}, nil
}
