package router_test

import (
	"context"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	appointmentHandler "github.com/alshifa-clinic/booking-api/internal/handler/appointment"
	authHandler "github.com/alshifa-clinic/booking-api/internal/handler/auth"
	directoryHandler "github.com/alshifa-clinic/booking-api/internal/handler/directory"
	"github.com/alshifa-clinic/booking-api/internal/middleware"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/router"
	"github.com/alshifa-clinic/booking-api/internal/seed"
	"github.com/alshifa-clinic/booking-api/internal/service/auth"
	"github.com/alshifa-clinic/booking-api/internal/service/availability"
	"github.com/alshifa-clinic/booking-api/internal/service/booking"
	"github.com/alshifa-clinic/booking-api/internal/service/directory"
	"github.com/alshifa-clinic/booking-api/internal/service/lifecycle"
	"github.com/alshifa-clinic/booking-api/internal/service/query"
	"github.com/alshifa-clinic/booking-api/internal/store"
)

// One engine for the whole suite: the router registers prometheus collectors
// in the default registry, which tolerates exactly one registration.
var (
	engine     *gin.Engine
	adminToken string
)

func TestMain(m *testing.M) {
	log := zerolog.Nop()

	entityStore := store.New(store.NewMemoryKV(), nil, log, nil)
	userRepo := kv.NewUserRepository(entityStore)
	doctorRepo := kv.NewDoctorRepository(entityStore)
	departmentRepo := kv.NewDepartmentRepository(entityStore)
	appointmentRepo := kv.NewAppointmentRepository(entityStore)

	if err := seed.EnsureDefaults(context.Background(), seed.Repositories{
		Users:       userRepo,
		Doctors:     doctorRepo,
		Departments: departmentRepo,
	}, log); err != nil {
		panic(err)
	}

	availabilitySvc := availability.NewService(appointmentRepo, nil, log)
	bookingSvc := booking.NewService(appointmentRepo, doctorRepo, departmentRepo, availabilitySvc, nil, log)
	lifecycleSvc := lifecycle.NewService(appointmentRepo, nil, log)
	querySvc := query.NewService(appointmentRepo)
	directorySvc := directory.NewService(doctorRepo, departmentRepo, log)
	authSvc := auth.NewService(userRepo, auth.Config{Secret: "router-test-secret", ExpiryHours: 1})

	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	r := router.New(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(bookingSvc, lifecycleSvc, querySvc, availabilitySvc),
		directoryHandler.NewHandler(directorySvc, authMiddleware),
		router.Config{
			RateLimit:        rate.Limit(1000),
			RateBurst:        1000,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsNamespace: "clinic_test",
		},
	)
	r.Setup()
	engine = r.Engine()

	adminToken = login("admin@alshifa-clinic.com", seed.DefaultPassword)

	os.Exit(m.Run())
}
