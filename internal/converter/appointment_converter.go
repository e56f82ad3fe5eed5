package converter

import (
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment to its DTO. Patient and
// doctor names are filled in when the relations were preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:               appointment.ID,
		PatientID:        appointment.PatientID,
		PatientFirstName: appointment.Patient.FirstName,
		PatientLastName:  appointment.Patient.LastName,
		DoctorID:         appointment.DoctorID,
		DoctorFirstName:  appointment.Doctor.User.FirstName,
		DoctorLastName:   appointment.Doctor.User.LastName,
		Specialization:   appointment.Doctor.Specialization,
		AppointmentDate:  appointment.AppointmentDate,
		AppointmentType:  appointment.AppointmentType,
		Status:           string(appointment.Status),
		Notes:            appointment.Notes,
		RequiredSupplies: appointment.SupplyIDs(),
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
