// Package extraction pulls actionable payment intelligence out of
// scammer messages: UPI IDs, bank account numbers, Indian phone
// numbers, and URLs with shortener expansion and threat scoring.
package extraction

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/internal/domain/services/detection"
	"honeypot-lab/pkg/logger"
)

var (
	upiPattern     = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]+`)
	accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	phonePattern   = regexp.MustCompile(`(?:\+91[\s-]?)?[6-9]\d{9}`)
	ifscPattern    = regexp.MustCompile(`[A-Z]{4}0[A-Z0-9]{6}`)
)

// upiProviders are the handle suffixes of known Indian payment apps
var upiProviders = map[string]string{
	"paytm":      "Paytm",
	"ybl":        "PhonePe",
	"okaxis":     "Google Pay (Axis)",
	"okicici":    "Google Pay (ICICI)",
	"okhdfcbank": "Google Pay (HDFC)",
	"upi":        "BHIM",
	"apl":        "Amazon Pay",
	"ibl":        "PhonePe (ICICI)",
	"axl":        "PhonePe (Axis)",
	"sbi":        "SBI Pay",
	"icici":      "iMobile",
	"hdfc":       "HDFC PayZapp",
	"gpay":       "Google Pay",
	"phonepe":    "PhonePe",
}

// Resolver expands a shortened URL to its destination
type Resolver interface {
	Resolve(ctx context.Context, shortURL string) (string, error)
}

// shortenerHosts are the URL-shortener domains worth expanding
var shortenerHosts = []string{"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly"}

// Engine extracts payment intelligence from a single message. URLs
// are expanded and threat-scored concurrently; everything else is
// plain regex work.
type Engine struct {
	resolver Resolver
	scorer   *detection.URLScorer
	logger   *logger.Logger
}

// NewEngine creates an extraction engine. resolver may be nil to
// disable shortener expansion.
func NewEngine(resolver Resolver, scorer *detection.URLScorer, log *logger.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		scorer:   scorer,
		logger:   log.WithComponent("extraction-engine"),
	}
}

// Extract pulls every supported artifact type out of one message
func (e *Engine) Extract(ctx context.Context, message string) models.ExtractedIntelligence {
	intel := models.ExtractedIntelligence{
		UPIIDs:       e.extractUPIIDs(message),
		BankAccounts: e.extractBankAccounts(message),
		PhoneNumbers: e.extractPhoneNumbers(message),
		URLs:         e.extractURLs(ctx, message),
	}
	intel.Rescore()

	if intel.Completeness > 0 {
		e.logger.Debug().
			Int("upi_ids", len(intel.UPIIDs)).
			Int("bank_accounts", len(intel.BankAccounts)).
			Int("phone_numbers", len(intel.PhoneNumbers)).
			Int("urls", len(intel.URLs)).
			Float64("completeness", intel.Completeness).
			Msg("extracted intelligence")
	}
	return intel
}

func (e *Engine) extractUPIIDs(message string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, candidate := range upiPattern.FindAllString(message, -1) {
		id := strings.ToLower(candidate)
		if _, ok := seen[id]; ok {
			continue
		}
		if !isValidUPI(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isValidUPI accepts known provider suffixes, or any plausible
// alphabetic suffix of at least two characters. Email-style TLD
// handles slip through here intentionally: scammers use mail-shaped
// UPI handles too.
func isValidUPI(id string) bool {
	parts := strings.SplitN(id, "@", 2)
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	suffix := parts[1]
	if _, ok := upiProviders[suffix]; ok {
		return true
	}
	return len(suffix) >= 2
}

// ProviderName maps a UPI handle to its payment app, if known
func ProviderName(upiID string) string {
	parts := strings.SplitN(strings.ToLower(upiID), "@", 2)
	if len(parts) != 2 {
		return ""
	}
	return upiProviders[parts[1]]
}

func (e *Engine) extractBankAccounts(message string) []models.BankAccount {
	ifscCodes := ifscPattern.FindAllString(message, -1)

	// Any digit run in [9,18] counts, including phone-shaped ones: a
	// number the scammer hands out can be both a contact and a payout
	// destination, and the report wants it under both headings.
	var out []models.BankAccount
	seen := make(map[string]struct{})
	for _, number := range accountPattern.FindAllString(message, -1) {
		if _, ok := seen[number]; ok {
			continue
		}
		seen[number] = struct{}{}

		account := models.BankAccount{AccountNumber: number}
		// pair IFSC codes positionally with the kept accounts
		if len(out) < len(ifscCodes) {
			account.IFSCCode = ifscCodes[len(out)]
			account.BankName = bankFromIFSC(account.IFSCCode)
		}
		out = append(out, account)
	}
	return out
}

// bankFromIFSC resolves the four-letter bank prefix of an IFSC code
func bankFromIFSC(ifsc string) string {
	banks := map[string]string{
		"SBIN": "State Bank of India",
		"HDFC": "HDFC Bank",
		"ICIC": "ICICI Bank",
		"UTIB": "Axis Bank",
		"PUNB": "Punjab National Bank",
		"BARB": "Bank of Baroda",
		"KKBK": "Kotak Mahindra Bank",
		"YESB": "Yes Bank",
		"IDIB": "Indian Bank",
		"CNRB": "Canara Bank",
	}
	if len(ifsc) < 4 {
		return ""
	}
	return banks[ifsc[:4]]
}

func (e *Engine) extractPhoneNumbers(message string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, candidate := range phonePattern.FindAllString(message, -1) {
		normalized := normalizePhone(candidate)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// normalizePhone reduces any matched form to +91XXXXXXXXXX, rejecting
// numbers whose subscriber part does not start with 6-9
func normalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case len(digits) == 10:
		// keep as-is
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	default:
		return ""
	}
	if digits[0] < '6' || digits[0] > '9' {
		return ""
	}
	return "+91" + digits
}

// extractURLs finds URLs, expands shorteners, and threat-scores each
// result. The URL set comes from the same extraction the detection
// tier uses, so bare domains like "secure-kyc-update.tk" are captured
// here too. Expansion and scoring run concurrently per URL.
func (e *Engine) extractURLs(ctx context.Context, message string) []models.ScoredURL {
	raw := detection.ExtractURLs(message)
	if len(raw) == 0 {
		return nil
	}

	results := make([]models.ScoredURL, len(raw))
	var wg sync.WaitGroup
	for i, u := range raw {
		wg.Add(1)
		go func(idx int, original string) {
			defer wg.Done()
			results[idx] = e.processURL(ctx, original)
		}(i, u)
	}
	wg.Wait()
	return results
}

func (e *Engine) processURL(ctx context.Context, original string) models.ScoredURL {
	scored := models.ScoredURL{Original: original, Expanded: original}

	if e.resolver != nil && isShortened(original) {
		expanded, err := e.resolver.Resolve(ctx, original)
		if err != nil {
			e.logger.Debug().Err(err).Str("url", original).Msg("URL expansion failed")
		} else if expanded != "" {
			scored.Expanded = expanded
		}
	}

	if e.scorer != nil {
		verdict := e.scorer.Score(scored.Expanded)
		scored.ThreatScore = verdict.Confidence
	}
	return scored
}

func isShortened(u string) bool {
	lower := strings.ToLower(u)
	for _, host := range shortenerHosts {
		if strings.Contains(lower, host+"/") {
			return true
		}
	}
	return false
}
