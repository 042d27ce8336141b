// Command demo runs a fixed sequence of catalog operations against the
// configured store and prints the electronics products.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/veo1/go-product-catalog/config"
	"github.com/veo1/go-product-catalog/database"
	"github.com/veo1/go-product-catalog/logger"
	"github.com/veo1/go-product-catalog/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(config.EnvLocal)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Primary.Env)
	if err := run(context.Background(), cfg, log, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("demo failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, out io.Writer) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var opts []models.Option
	if cfg.Repository.StrictReferences {
		opts = append(opts, models.WithReferenceCheck())
	}
	repo := models.NewCatalogRepository(db, opts...)

	return demo(ctx, repo, out)
}

func demo(ctx context.Context, repo *models.CatalogRepository, out io.Writer) error {
	electronics, err := repo.CreateCategory(ctx, "Electronics")
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	clothing, err := repo.CreateCategory(ctx, "Clothing")
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	if _, err := repo.CreateProduct(ctx, "Smartphone", decimal.NewFromInt(50000), electronics.ID); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if _, err := repo.CreateProduct(ctx, "Laptop", decimal.NewFromInt(100000), electronics.ID); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	tshirt, err := repo.CreateProduct(ctx, "T-shirt", decimal.NewFromInt(1500), clothing.ID)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	products, err := repo.GetProductsByCategory(ctx, electronics.ID)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	fmt.Fprintln(out, "Electronics products:")
	for _, p := range products {
		fmt.Fprintf(out, "%s - %s rub.\n", p.Name, p.Price.String())
	}

	if _, err := repo.UpdateProductCategory(ctx, tshirt.ID, electronics.ID); err != nil {
		return fmt.Errorf("move product: %w", err)
	}

	if err := repo.DeleteCategory(ctx, clothing.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
