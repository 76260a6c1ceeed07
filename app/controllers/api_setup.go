package controllers

import (
	"sync"

	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/database"
	"github.com/hanapbahay/hanapbahay/internal/pkg/notify"
	"github.com/hanapbahay/hanapbahay/internal/pkg/payments"
	"github.com/hanapbahay/hanapbahay/internal/pkg/plancatalog"
	"github.com/hanapbahay/hanapbahay/internal/pkg/statistics"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
)

// Services are built lazily from the global DB handle so controllers stay
// plain package functions, same as the rest of the app.
var (
	servicesOnce     sync.Once
	paymentService   *payments.Service
	adminService     *payments.AdminService
	planCatalog      *plancatalog.Catalog
	statsService     *statistics.Service
	subscriptionRead subscription.Store
)

func initServices() {
	servicesOnce.Do(func() {
		db := database.GetDB()
		repos := repository.GetGlobalRepositories()

		planCatalog = plancatalog.NewCatalog(repos.Plan)
		paymentService = payments.NewServiceFromDB(db, planCatalog, repos.Setting)
		adminService = payments.NewAdminServiceFromDB(db, notify.NewNotifier(db))
		statsService = statistics.NewService(repos.Subscription, repos.Listing)
		subscriptionRead = subscription.NewStore(db)
	})
}
