package triage

import "strings"

// Rule maps one symptom to one advice line.
type Rule struct {
	Symptom string
	Advice  string
}

// DefaultAdvice is returned when no rule matches the symptom.
const DefaultAdvice = "No specific guidance for this symptom. If it persists or gets worse, please consult a doctor."

// DefaultRules cover the complaints the prototype recognizes. Matching is
// exact on the normalized symptom, not a keyword search.
var DefaultRules = []Rule{
	{Symptom: "fever", Advice: "Rest, drink plenty of fluids, and monitor your temperature. See a doctor if the fever lasts more than three days or rises above 39C."},
	{Symptom: "headache", Advice: "Rest in a quiet, dimly lit room and stay hydrated. See a doctor if the headache is sudden, severe, or comes with vision changes."},
	{Symptom: "cough", Advice: "Stay hydrated and rest. See a doctor if the cough lasts more than two weeks or brings up blood."},
	{Symptom: "sore throat", Advice: "Warm fluids and rest usually help. See a doctor if swallowing becomes difficult or the pain lasts more than a week."},
	{Symptom: "chest pain", Advice: "Chest pain can be serious. Stop what you are doing and seek medical attention immediately."},
	{Symptom: "stomach ache", Advice: "Eat light meals and stay hydrated. See a doctor if the pain is severe, stays in one spot, or lasts more than two days."},
	{Symptom: "dizziness", Advice: "Sit or lie down until it passes and drink some water. See a doctor if it keeps coming back or you faint."},
	{Symptom: "rash", Advice: "Keep the area clean and avoid scratching. See a doctor if the rash spreads quickly or comes with a fever."},
	{Symptom: "back pain", Advice: "Gentle movement and heat often help. See a doctor if the pain shoots down a leg or follows an injury."},
	{Symptom: "fatigue", Advice: "Prioritize sleep and regular meals. See a doctor if the tiredness lasts several weeks without a clear cause."},
}

// Advice is the result of a triage lookup.
type Advice struct {
	Symptom string `json:"symptom"`
	Advice  string `json:"advice"`
	Matched bool   `json:"matched"`
}

// Service answers symptom lookups from a fixed rule table.
type Service struct {
	rules map[string]string
}

// NewService builds a lookup table from the given rules. Rules with a blank
// symptom or advice are skipped; a later rule for the same symptom wins.
func NewService(rules []Rule) *Service {
	table := make(map[string]string, len(rules))
	for _, rule := range rules {
		key := normalize(rule.Symptom)
		if key == "" || strings.TrimSpace(rule.Advice) == "" {
			continue
		}
		table[key] = rule.Advice
	}
	return &Service{rules: table}
}

// Lookup returns the advice for a symptom. The symptom is trimmed,
// case-folded, and inner whitespace collapsed before matching, so
// "  Chest   Pain " matches the "chest pain" rule.
func (s *Service) Lookup(symptom string) Advice {
	key := normalize(symptom)
	if advice, ok := s.rules[key]; ok {
		return Advice{Symptom: key, Advice: advice, Matched: true}
	}
	return Advice{Symptom: key, Advice: DefaultAdvice, Matched: false}
}

func normalize(symptom string) string {
	return strings.ToLower(strings.Join(strings.Fields(symptom), " "))
}
