// Command seed fills the configured entity store with demo data: the default
// directory plus generated patients and a spread of bookings. Intended for
// local development against a fresh store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/alshifa-clinic/booking-api/internal/config"
	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/seed"
	"github.com/alshifa-clinic/booking-api/internal/service/auth"
	"github.com/alshifa-clinic/booking-api/internal/service/availability"
	"github.com/alshifa-clinic/booking-api/internal/service/booking"
	"github.com/alshifa-clinic/booking-api/internal/store"
	"github.com/alshifa-clinic/booking-api/pkg/logger"
)

func main() {
	patients := flag.Int("patients", 25, "number of demo patients")
	bookings := flag.Int("bookings", 40, "number of booking attempts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: true})

	var backend store.KV
	switch cfg.Store.Backend {
	case "postgres":
		backend, err = store.NewPostgresKV(store.PostgresConfig{
			Host:     cfg.Store.Host,
			Port:     cfg.Store.Port,
			User:     cfg.Store.User,
			Password: cfg.Store.Password,
			Name:     cfg.Store.Name,
			SSLMode:  cfg.Store.SSLMode,
		})
	default:
		backend, err = store.NewFileKV(cfg.Store.Path, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	entityStore := store.New(backend, nil, log, nil)
	defer entityStore.Close()

	userRepo := kv.NewUserRepository(entityStore)
	doctorRepo := kv.NewDoctorRepository(entityStore)
	departmentRepo := kv.NewDepartmentRepository(entityStore)
	appointmentRepo := kv.NewAppointmentRepository(entityStore)

	ctx := context.Background()
	if err := seed.EnsureDefaults(ctx, seed.Repositories{
		Users:       userRepo,
		Doctors:     doctorRepo,
		Departments: departmentRepo,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed defaults")
	}

	gofakeit.Seed(time.Now().UnixNano())

	demoPatients, err := seedPatients(ctx, userRepo, *patients)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed patients")
	}
	log.Info().Int("count", len(demoPatients)).Msg("seeded patients")

	booked, err := seedBookings(ctx, appointmentRepo, doctorRepo, departmentRepo, demoPatients, *bookings)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed bookings")
	}
	log.Info().Int("count", booked).Msg("seeded bookings")
}

func seedPatients(ctx context.Context, users repository.UserRepository, count int) ([]model.User, error) {
	hash, err := auth.HashPassword(seed.DefaultPassword)
	if err != nil {
		return nil, err
	}

	out := make([]model.User, 0, count)
	for i := 0; i < count; i++ {
		user := model.User{
			ID:           uuid.New().String(),
			Name:         gofakeit.Name(),
			Email:        gofakeit.Email(),
			Phone:        gofakeit.Phone(),
			Role:         model.RolePatient,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := users.Create(ctx, &user); err != nil {
			// Duplicate generated email; skip it.
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

// seedBookings funnels attempts through the real booking engine so the demo
// data obeys the same conflict rules as live traffic. Attempts that collide
// are simply dropped.
func seedBookings(
	ctx context.Context,
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	departments repository.DepartmentRepository,
	patients []model.User,
	count int,
) (int, error) {
	log := logger.New(logger.Config{Level: "error"})
	avail := availability.NewService(appointments, nil, log)
	engine := booking.NewService(appointments, doctors, departments, avail, nil, log)

	doctorList, err := doctors.List(ctx)
	if err != nil {
		return 0, err
	}
	departmentList, err := departments.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(doctorList) == 0 || len(departmentList) == 0 || len(patients) == 0 {
		return 0, fmt.Errorf("nothing to book against")
	}

	deptByName := make(map[string]string, len(departmentList))
	for _, d := range departmentList {
		deptByName[d.Name] = d.ID
	}

	methods := []model.PaymentMethod{model.PaymentMethodCard, model.PaymentMethodCash}
	booked := 0
	for i := 0; i < count; i++ {
		doctor := doctorList[gofakeit.Number(0, len(doctorList)-1)]
		patient := patients[gofakeit.Number(0, len(patients)-1)]

		// Random weekday within the next two weeks, skipping the closure day.
		date := time.Now().AddDate(0, 0, gofakeit.Number(1, 14))
		if date.Weekday() == time.Friday {
			date = date.AddDate(0, 0, 1)
		}

		req := &model.BookingRequest{
			DepartmentID:  deptByName[doctor.Department],
			DoctorID:      doctor.ID,
			Date:          date.Format("2006-01-02"),
			Time:          doctor.AvailableSlots[gofakeit.Number(0, len(doctor.AvailableSlots)-1)],
			PaymentMethod: methods[i%len(methods)],
			PatientID:     patient.ID,
			PatientName:   patient.Name,
		}
		if _, err := engine.Book(ctx, req); err == nil {
			booked++
		}
	}
	return booked, nil
}
