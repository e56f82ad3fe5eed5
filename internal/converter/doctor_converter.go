package converter

import (
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
)

// DoctorToResponse flattens the doctor record and, if loaded, its user.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		UserID:         doctor.UserID,
		FirstName:      doctor.User.FirstName,
		LastName:       doctor.User.LastName,
		Email:          doctor.User.Email,
		Phone:          doctor.User.Phone,
		Specialization: doctor.Specialization,
		LicenseNumber:  doctor.LicenseNumber,
		Bio:            doctor.Bio,
		Availability:   doctor.WeeklyAvailability(),
		CreatedAt:      doctor.CreatedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
