package model

// Doctor is a bookable clinician. AvailableSlots is a static template of
// bookable times of day ("09:00"), not a live calendar; actual availability
// for a date is derived by subtracting booked appointments.
type Doctor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Department     string   `json:"department"`
	Experience     string   `json:"experience"`
	Image          string   `json:"image"`
	AvailableSlots []string `json:"available_slots"`
	Rating         float64  `json:"rating"`
}

// OffersSlot reports whether t is one of the doctor's declared times.
func (d *Doctor) OffersSlot(t string) bool {
	for _, s := range d.AvailableSlots {
		if s == t {
			return true
		}
	}
	return false
}

type CreateDoctorRequest struct {
	Name           string   `json:"name" binding:"required"`
	Specialty      string   `json:"specialty" binding:"required"`
	Department     string   `json:"department" binding:"required"`
	Experience     string   `json:"experience"`
	Image          string   `json:"image"`
	AvailableSlots []string `json:"available_slots" binding:"required,min=1"`
	Rating         float64  `json:"rating" binding:"gte=0,lte=5"`
}

type UpdateDoctorRequest struct {
	Name           *string   `json:"name"`
	Specialty      *string   `json:"specialty"`
	Department     *string   `json:"department"`
	Experience     *string   `json:"experience"`
	Image          *string   `json:"image"`
	AvailableSlots *[]string `json:"available_slots"`
	Rating         *float64  `json:"rating"`
}
