package models

// BankAccount is one extracted bank account
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
}

// ScoredURL is one extracted URL after redirect expansion and threat scoring
type ScoredURL struct {
	Original    string `json:"original"`
	Expanded    string `json:"expanded"`
	ThreatScore int    `json:"threat_score"`
}

// ExtractedIntelligence holds the structured intelligence pulled from
// free text. Produced per message by the extraction engine and merged
// into a session-lifetime copy; all slices behave as sets.
type ExtractedIntelligence struct {
	UPIIDs       []string      `json:"upi_ids"`
	BankAccounts []BankAccount `json:"bank_accounts"`
	PhoneNumbers []string      `json:"phone_numbers"`
	URLs         []ScoredURL   `json:"urls"`
	Completeness float64       `json:"extraction_completeness"`
}

// Merge unions another extraction into this one, deduplicating each
// entity class, and recomputes the completeness score.
func (e *ExtractedIntelligence) Merge(other ExtractedIntelligence) {
	for _, upi := range other.UPIIDs {
		if !containsString(e.UPIIDs, upi) {
			e.UPIIDs = append(e.UPIIDs, upi)
		}
	}
	for _, acc := range other.BankAccounts {
		if !containsAccount(e.BankAccounts, acc.AccountNumber) {
			e.BankAccounts = append(e.BankAccounts, acc)
		}
	}
	for _, phone := range other.PhoneNumbers {
		if !containsString(e.PhoneNumbers, phone) {
			e.PhoneNumbers = append(e.PhoneNumbers, phone)
		}
	}
	for _, u := range other.URLs {
		if !containsURL(e.URLs, u.Original) {
			e.URLs = append(e.URLs, u)
		}
	}
	e.Completeness = e.score()
}

// Rescore recomputes the completeness score from the current sets
func (e *ExtractedIntelligence) Rescore() {
	e.Completeness = e.score()
}

// score weighs which entity classes are present, not how many values
// each holds: UPI 40, bank account 30, phone 20, URL 10, capped at 100.
func (e *ExtractedIntelligence) score() float64 {
	score := 0.0
	if len(e.UPIIDs) > 0 {
		score += 40
	}
	if len(e.BankAccounts) > 0 {
		score += 30
	}
	if len(e.PhoneNumbers) > 0 {
		score += 20
	}
	if len(e.URLs) > 0 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsAccount(accounts []BankAccount, number string) bool {
	for _, a := range accounts {
		if a.AccountNumber == number {
			return true
		}
	}
	return false
}

func containsURL(urls []ScoredURL, original string) bool {
	for _, u := range urls {
		if u.Original == original {
			return true
		}
	}
	return false
}
