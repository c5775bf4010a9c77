package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"
	"testing"
	"time"

	"verduleria/internal/domain"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(255),
			image_file_name VARCHAR(255) NOT NULL DEFAULT 'default.jpg',
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			price NUMERIC(10, 2) NOT NULL,
			is_promotion BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS shopping_carts (
			id BIGSERIAL PRIMARY KEY,
			datetime VARCHAR(32) NOT NULL,
			fullname VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			total NUMERIC(10, 2) NOT NULL
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func clearProducts(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec("DELETE FROM products"); err != nil {
		t.Fatalf("failed to clear products: %v", err)
	}
}

func mustCreateProduct(t *testing.T, repo ProductRepository, name string, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:          name,
		ImageFileName: "default.jpg",
		Stock:         stock,
		Price:         5,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("failed to create product %q: %v", name, err)
	}
	return product
}

func currentStock(t *testing.T, id int64) int {
	t.Helper()
	var stock int
	if err := testDB.QueryRow("SELECT stock FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock for product %d: %v", id, err)
	}
	return stock
}

func TestProductRepository_CreateAssignsID(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)

	product := mustCreateProduct(t, repo, "TOMATE", 10)
	if product.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	found, err := repo.FindByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "TOMATE" || found.Stock != 10 {
		t.Errorf("retrieved product = %+v, want name TOMATE stock 10", found)
	}
}

func TestProductRepository_FindByIDNotFound(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), 99999)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("FindByID error = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_ListSortsAndFilters(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	zanahoria := mustCreateProduct(t, repo, "ZANAHORIA", 3)
	mustCreateProduct(t, repo, "CAFE", 8)
	mustCreateProduct(t, repo, "CAFETERA", 2)

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d products, want 3", len(all))
	}
	if all[0].Name != "CAFE" || all[1].Name != "CAFETERA" || all[2].Name != "ZANAHORIA" {
		t.Errorf("List is not sorted by name: %v, %v, %v", all[0].Name, all[1].Name, all[2].Name)
	}

	// Accented lowercase search term matches the normalized stored names.
	matches, err := repo.List(ctx, "café")
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("search %q returned %d products, want 2", "café", len(matches))
	}

	// A numeric term matches the exact id.
	byID, err := repo.List(ctx, strconv.FormatInt(zanahoria.ID, 10))
	if err != nil {
		t.Fatalf("List by id failed: %v", err)
	}
	if len(byID) != 1 || byID[0].ID != zanahoria.ID {
		t.Errorf("search by id returned %d products, want the zanahoria row", len(byID))
	}
}

func TestProductRepository_UpdateReplacesFields(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := mustCreateProduct(t, repo, "TOMATE", 10)

	description := "ripe and red"
	product.Name = "TOMATE PERITA"
	product.Description = &description
	product.Stock = 4
	product.Price = 7.5
	product.IsPromotion = true

	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "TOMATE PERITA" || found.Stock != 4 || !found.IsPromotion {
		t.Errorf("updated product = %+v", found)
	}
	if found.Description == nil || *found.Description != description {
		t.Errorf("Description = %v, want %q", found.Description, description)
	}
}

func TestProductRepository_UpdateMissingReturnsNotFound(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)

	err := repo.Update(context.Background(), &domain.Product{
		ID:            99999,
		Name:          "GHOST",
		ImageFileName: "default.jpg",
		Price:         1,
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Update error = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := mustCreateProduct(t, repo, "TOMATE", 10)

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("FindByID after delete = %v, want ErrProductNotFound", err)
	}
	if err := repo.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("second Delete = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_DecrementStockCommitsValidBatch(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	tomate := mustCreateProduct(t, repo, "TOMATE", 5)
	cafe := mustCreateProduct(t, repo, "CAFE", 8)

	updated, err := repo.DecrementStock(ctx, []domain.DecrementItem{
		{ID: tomate.ID, Amount: 2},
		{ID: cafe.ID, Amount: 3},
	})
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}

	if len(updated) != 2 {
		t.Fatalf("returned %d products, want 2", len(updated))
	}
	// Results come back in input order with post-decrement stock.
	if updated[0].ID != tomate.ID || updated[0].Stock != 3 {
		t.Errorf("first result = id %d stock %d, want id %d stock 3", updated[0].ID, updated[0].Stock, tomate.ID)
	}
	if updated[1].ID != cafe.ID || updated[1].Stock != 5 {
		t.Errorf("second result = id %d stock %d, want id %d stock 5", updated[1].ID, updated[1].Stock, cafe.ID)
	}

	if got := currentStock(t, tomate.ID); got != 3 {
		t.Errorf("committed stock = %d, want 3", got)
	}
	if got := currentStock(t, cafe.ID); got != 5 {
		t.Errorf("committed stock = %d, want 5", got)
	}
}

func TestProductRepository_DecrementStockMissingProductRollsBack(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	tomate := mustCreateProduct(t, repo, "TOMATE", 5)

	_, err := repo.DecrementStock(ctx, []domain.DecrementItem{
		{ID: tomate.ID, Amount: 2},
		{ID: 99999, Amount: 1},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("DecrementStock error = %v, want ErrProductNotFound", err)
	}

	// The first item was staged before the failure; the rollback must undo it.
	if got := currentStock(t, tomate.ID); got != 5 {
		t.Errorf("stock after rollback = %d, want 5", got)
	}
}

func TestProductRepository_DecrementStockInsufficientRollsBack(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	tomate := mustCreateProduct(t, repo, "TOMATE", 5)
	cafe := mustCreateProduct(t, repo, "CAFE", 1)

	_, err := repo.DecrementStock(ctx, []domain.DecrementItem{
		{ID: tomate.ID, Amount: 2},
		{ID: cafe.ID, Amount: 3},
	})

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("DecrementStock error = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductID != cafe.ID || stockErr.Requested != 3 || stockErr.Stock != 1 {
		t.Errorf("error detail = %+v, want product %d requested 3 stock 1", stockErr, cafe.ID)
	}

	if got := currentStock(t, tomate.ID); got != 5 {
		t.Errorf("stock after rollback = %d, want 5", got)
	}
	if got := currentStock(t, cafe.ID); got != 1 {
		t.Errorf("stock after rollback = %d, want 1", got)
	}
}

func TestProductRepository_DecrementStockEmptyBatch(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)

	updated, err := repo.DecrementStock(context.Background(), nil)
	if err != nil {
		t.Fatalf("DecrementStock on empty batch failed: %v", err)
	}
	if len(updated) != 0 {
		t.Errorf("empty batch returned %d products, want 0", len(updated))
	}
}

func TestProductRepository_DecrementToZeroIsAllowed(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	tomate := mustCreateProduct(t, repo, "TOMATE", 2)

	updated, err := repo.DecrementStock(ctx, []domain.DecrementItem{{ID: tomate.ID, Amount: 2}})
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if updated[0].Stock != 0 {
		t.Errorf("stock = %d, want 0", updated[0].Stock)
	}
}
