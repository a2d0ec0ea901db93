package orchestrator

import "github.com/leadmesh/leadmesh/core"

// followUpMessageThreshold is the engagement floor below which a follow-up
// campaign is not worth firing.
const followUpMessageThreshold = 4

// ShouldFollowUp decides whether a finished conversation earns a follow-up
// campaign: never when an appointment is already booked, never when no
// external contact was ever attached, and otherwise only when the accumulated
// message count exceeds the threshold.
func ShouldFollowUp(appointmentBooked bool, contactID string, messageCount int) bool {
	if appointmentBooked {
		return false
	}
	if contactID == "" {
		return false
	}
	return messageCount > followUpMessageThreshold
}

// ShouldFollowUpSession applies the follow-up heuristic to a session snapshot.
func ShouldFollowUpSession(s *core.Session) bool {
	return ShouldFollowUp(s.MetaBool(core.MetaAppointmentBooked), s.ContactID, s.MessageCount())
}
