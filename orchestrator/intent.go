package orchestrator

import "strings"

// Intent is a classification tag derived from free text indicating a likely
// user goal. A single message can carry multiple intents.
type Intent string

const (
	// IntentAppointment signals interest in scheduling.
	IntentAppointment Intent = "appointment"
	// IntentContactUpdate signals the user is sharing contact details.
	IntentContactUpdate Intent = "contact_update"
	// IntentUrgent signals time pressure.
	IntentUrgent Intent = "urgent"
	// IntentImmigration signals an immigration practice-area inquiry.
	IntentImmigration Intent = "immigration"
	// IntentPersonalInjury signals a personal-injury practice-area inquiry.
	IntentPersonalInjury Intent = "personal_injury"
	// IntentFamilyLaw signals a family-law practice-area inquiry.
	IntentFamilyLaw Intent = "family_law"
	// IntentCriminalDefense signals a criminal-defense practice-area inquiry.
	IntentCriminalDefense Intent = "criminal_defense"
)

// intentChecks is ordered so classification output is deterministic.
var intentChecks = []struct {
	intent   Intent
	keywords []string
}{
	{IntentAppointment, []string{"appointment", "schedule", "book", "consultation", "meet", "cita", "agendar"}},
	{IntentContactUpdate, []string{"my name is", "my email", "my phone", "my number", "me llamo", "mi correo", "mi teléfono"}},
	{IntentUrgent, []string{"urgent", "emergency", "asap", "right away", "immediately", "urgente", "emergencia"}},
	{IntentImmigration, []string{"immigration", "visa", "green card", "citizenship", "deportation", "inmigración", "ciudadanía"}},
	{IntentPersonalInjury, []string{"accident", "injury", "injured", "crash", "slip and fall", "accidente", "lesión"}},
	{IntentFamilyLaw, []string{"divorce", "custody", "child support", "alimony", "divorcio", "custodia"}},
	{IntentCriminalDefense, []string{"arrest", "arrested", "charges", "dui", "criminal", "arresto", "cargos"}},
}

// practiceAreaIntents maps practice-area intents to the CRM tag they imply.
var practiceAreaIntents = map[Intent]string{
	IntentImmigration:     "immigration",
	IntentPersonalInjury:  "personal_injury",
	IntentFamilyLaw:       "family_law",
	IntentCriminalDefense: "criminal_defense",
}

// Intents classifies free text into a set of intent tags using independent
// case-insensitive keyword-containment checks. The checks are not mutually
// exclusive, and identical input always yields the identical intent set.
func Intents(text string) []Intent {
	t := strings.ToLower(text)
	var out []Intent
	for _, check := range intentChecks {
		for _, kw := range check.keywords {
			if strings.Contains(t, kw) {
				out = append(out, check.intent)
				break
			}
		}
	}
	return out
}
