package plancatalog

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/cache"
	"gorm.io/gorm"
)

// ErrPlanNotFound is returned for unknown or inactive plan ids.
var ErrPlanNotFound = errors.New("plan not found")

const (
	cacheKeyPlans   = "plancatalog:plans"
	cacheExpiration = 30 * time.Minute
)

// Catalog provides read-only access to the plan reference data. Lookups go
// through a Redis cache of the full plan list; cache trouble degrades to
// direct DB reads.
type Catalog struct {
	repo repository.PlanRepository
}

// NewCatalog creates a catalog from an injected plan repository.
func NewCatalog(repo repository.PlanRepository) *Catalog {
	return &Catalog{repo: repo}
}

// NewCatalogFromDB creates a catalog from a GORM DB handle.
func NewCatalogFromDB(db *gorm.DB) *Catalog {
	return NewCatalog(repository.NewPlanRepository(db))
}

// ListPlans returns the sellable plans ordered by price ascending.
func (c *Catalog) ListPlans() ([]models.Plan, error) {
	if cached, err := cache.Get(cacheKeyPlans); err == nil && cached != "" {
		var plans []models.Plan
		if err := json.Unmarshal([]byte(cached), &plans); err == nil {
			return plans, nil
		}
	}

	plans, err := c.repo.ListActiveOrderedByPrice()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(plans); err == nil {
		if err := cache.Set(cacheKeyPlans, payload, cacheExpiration); err != nil {
			log.Printf("Failed to cache plan list: %v", err)
		}
	}

	return plans, nil
}

// GetPlan resolves a plan id, serving from the cached list when possible.
func (c *Catalog) GetPlan(id uint) (*models.Plan, error) {
	if plans, err := c.ListPlans(); err == nil {
		for i := range plans {
			if plans[i].ID == id {
				return &plans[i], nil
			}
		}
	}

	plan, err := c.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// FreePlan returns the seeded free plan, falling back to the built-in
// defaults when the row is missing.
func (c *Catalog) FreePlan() *models.Plan {
	plan, err := c.repo.GetBySlug("free")
	if err != nil {
		return models.FreePlan()
	}
	return plan
}
