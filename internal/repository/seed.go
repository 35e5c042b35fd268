package repository

import (
	"context"
	"fmt"

	"pricehunt/internal/catalog"
)

// ImportSeed writes the stores, products and current offers of a catalogue
// seed. Running it again overwrites the same rows.
func ImportSeed(ctx context.Context, products ProductRepository, prices PriceRepository, seed *catalog.Seed) (err error) {
	tx, err := prices.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, st := range seed.Stores {
		if err = prices.UpsertStore(ctx, tx, st); err != nil {
			return fmt.Errorf("failed to seed store %s: %w", st.ID, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stores: %w", err)
	}

	for i := range seed.Products {
		p := seed.Products[i].Product
		if err = products.Upsert(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	offersTx, err := prices.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin offer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = offersTx.Rollback(ctx)
		}
	}()

	for _, sp := range seed.Products {
		for _, o := range sp.Offers {
			if err = prices.UpsertOffer(ctx, offersTx, o); err != nil {
				return fmt.Errorf("failed to seed offer %s/%s: %w", o.ProductID, o.StoreID, err)
			}
		}
	}
	if err = offersTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit offers: %w", err)
	}

	return nil
}
