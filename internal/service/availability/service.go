// Package availability answers whether a doctor slot or a patient's time is
// free. The conflict predicate itself lives on the model (Appointment.Blocks*)
// and is shared with the repository's commit-time re-check; this package
// applies it to the read paths.
package availability

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	"github.com/alshifa-clinic/booking-api/internal/store"
	"github.com/alshifa-clinic/booking-api/pkg/metrics"
)

const (
	slotCacheTTL     = 30 * time.Second
	slotCacheCleanup = 5 * time.Minute
)

type Service struct {
	repo      repository.AppointmentRepository
	slotCache *gocache.Cache
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		slotCache: gocache.New(slotCacheTTL, slotCacheCleanup),
		metrics:   m,
		logger:    logger,
	}
}

// WatchChanges flushes the slot cache whenever the appointments collection
// changes, so a booking committed by another process greys out its slot
// without waiting for the TTL. Runs until ctx is cancelled.
func (s *Service) WatchChanges(ctx context.Context, st *store.Store) error {
	events, err := st.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("watch store changes: %w", err)
	}
	go func() {
		for ev := range events {
			if ev.Collection == store.CollectionAppointments {
				s.slotCache.Flush()
			}
		}
	}()
	return nil
}

// IsDoctorSlotFree reports whether the doctor has no non-cancelled
// appointment at date/time. Always reads the store, never the cache: this is
// the authoritative check the booking engine relies on.
func (s *Service) IsDoctorSlotFree(ctx context.Context, doctorID, date, t string) (bool, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range appointments {
		if appointments[i].BlocksDoctor(doctorID, date, t) {
			return false, nil
		}
	}
	return true, nil
}

// IsPatientSlotFree reports whether the patient holds no non-cancelled
// appointment at date/time, with any doctor.
func (s *Service) IsPatientSlotFree(ctx context.Context, patientID, date, t string) (bool, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range appointments {
		if appointments[i].BlocksPatient(patientID, date, t) {
			return false, nil
		}
	}
	return true, nil
}

// UnavailableSlots returns the set of times already held by non-cancelled
// appointments for the doctor on the given date. Served from a short-lived
// cache; this feeds the slot picker, where a slightly stale answer only
// costs the user a conflict error on submit.
func (s *Service) UnavailableSlots(ctx context.Context, doctorID, date string) (map[string]struct{}, error) {
	key := doctorID + "|" + date
	if cached, ok := s.slotCache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.SlotCacheHits.Inc()
		}
		return cached.(map[string]struct{}), nil
	}
	if s.metrics != nil {
		s.metrics.SlotCacheMisses.Inc()
	}

	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{})
	for i := range appointments {
		apt := &appointments[i]
		if apt.DoctorID == doctorID && apt.Date == date && apt.Active() {
			taken[apt.Time] = struct{}{}
		}
	}

	s.slotCache.Set(key, taken, gocache.DefaultExpiration)
	return taken, nil
}

// FreeSlots is the complement of UnavailableSlots over the doctor's declared
// template, in declared order.
func (s *Service) FreeSlots(ctx context.Context, doctor *model.Doctor, date string) ([]string, error) {
	taken, err := s.UnavailableSlots(ctx, doctor.ID, date)
	if err != nil {
		return nil, err
	}
	free := make([]string, 0, len(doctor.AvailableSlots))
	for _, t := range doctor.AvailableSlots {
		if _, booked := taken[t]; !booked {
			free = append(free, t)
		}
	}
	return free, nil
}
