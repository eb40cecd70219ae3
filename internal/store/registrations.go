package store

import (
	"context"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// ListRegistrationsByEvent returns the denormalized participant records for
// one event.
func (s *Store) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	var regs []*domain.EventRegistration
	for reg, err := range s.Registrations.List(ctx) {
		if err != nil {
			return nil, err
		}
		if reg.EventID == eventID {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

// CountRegistrationsByCollege aggregates participant counts per college.
// Records without a college are grouped under "Unknown".
func (s *Store) CountRegistrationsByCollege(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for reg, err := range s.Registrations.List(ctx) {
		if err != nil {
			return nil, err
		}
		college := reg.College
		if college == "" {
			college = "Unknown"
		}
		counts[college]++
	}
	return counts, nil
}

// CountRegistrationsByGender aggregates participant counts per gender.
func (s *Store) CountRegistrationsByGender(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for reg, err := range s.Registrations.List(ctx) {
		if err != nil {
			return nil, err
		}
		gender := reg.Gender
		if gender == "" {
			gender = "Unknown"
		}
		counts[gender]++
	}
	return counts, nil
}
