package detection

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"honeypot-lab/pkg/logger"
)

// suspicionThreshold is the per-URL score at which a URL counts as suspicious
const suspicionThreshold = 30

// Blacklist is the static URL threat data, loaded once at startup
type Blacklist struct {
	BlacklistedDomains []string `json:"blacklisted_domains"`
	SuspiciousPatterns []string `json:"suspicious_patterns"`
	SuspiciousTLDs     []string `json:"suspicious_tlds"`
	SuspiciousKeywords []string `json:"suspicious_keywords"`
}

// defaultBlacklist covers the common free-hosting and throwaway-TLD
// phishing infrastructure when no blacklist file is available.
func defaultBlacklist() Blacklist {
	return Blacklist{
		SuspiciousPatterns: []string{
			"godaddysites.com", "weebly.com", "wcomhost.com",
			"azurewebsites.net", "ngrok.io", "16mb.com",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".pw",
		},
		SuspiciousKeywords: []string{
			"login", "signin", "verify", "confirm", "secure", "account", "update",
		},
	}
}

// popularBrands is the fixed list checked for typosquatting
var popularBrands = []string{
	"google", "facebook", "amazon", "apple", "microsoft",
	"netflix", "paypal", "ebay", "instagram", "twitter",
	"linkedin", "whatsapp", "tiktok", "spotify", "uber",
	"airbnb", "dropbox", "zoom", "slack", "github",
	"chase", "wellsfargo", "bankofamerica", "citibank", "capitalone",
	"amex", "discover", "usbank", "pnc", "tdbank",
}

var (
	fullURLPattern  = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	shortURLPattern = regexp.MustCompile(`(?i)(?:bit\.ly|goo\.gl|tinyurl\.com|t\.co|ow\.ly)/[^\s]+`)
	domainPattern   = regexp.MustCompile(`(?i)(?:www\.)?[a-zA-Z0-9][-a-zA-Z0-9]*(?:\.[a-zA-Z]{2,})+(?:/[^\s]*)?`)
	ipDomainPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
)

// URLVerdict is the per-URL threat assessment
type URLVerdict struct {
	URL        string   `json:"url"`
	Domain     string   `json:"domain"`
	Suspicious bool     `json:"is_suspicious"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Category   string   `json:"category,omitempty"`
}

// MessageURLVerdict aggregates verdicts for every URL in one message
type MessageURLVerdict struct {
	HasURLs    bool         `json:"has_urls"`
	Suspicious bool         `json:"is_suspicious"`
	Confidence int          `json:"confidence"`
	Results    []URLVerdict `json:"results"`
}

// URLScorer is the phishing-heuristics tier: blacklist, TLD, hosting
// pattern, keyword, typosquatting and structural checks over single
// URLs. Read-only after load.
type URLScorer struct {
	blacklist Blacklist
	logger    *logger.Logger
}

// NewURLScorer creates a scorer with the built-in default blacklist
func NewURLScorer(log *logger.Logger) *URLScorer {
	return &URLScorer{
		blacklist: defaultBlacklist(),
		logger:    log.WithComponent("url-scorer"),
	}
}

// LoadBlacklist replaces the default data with a JSON blacklist file
func (s *URLScorer) LoadBlacklist(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read blacklist file: %w", err)
	}
	var bl Blacklist
	if err := json.Unmarshal(data, &bl); err != nil {
		return fmt.Errorf("failed to parse blacklist file: %w", err)
	}
	s.blacklist = bl
	s.logger.Info().
		Int("domains", len(bl.BlacklistedDomains)).
		Int("patterns", len(bl.SuspiciousPatterns)).
		Str("path", path).
		Msg("loaded URL blacklist")
	return nil
}

// Score runs all phishing checks against one URL
func (s *URLScorer) Score(raw string) URLVerdict {
	if raw == "" {
		return URLVerdict{}
	}

	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "http://" + normalized
	}

	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Host == "" {
		return URLVerdict{
			URL:        raw,
			Suspicious: true,
			Confidence: 50,
			Reasons:    []string{"invalid URL format"},
			Category:   "malformed",
		}
	}
	domain := parsed.Hostname()

	verdict := URLVerdict{URL: raw, Domain: domain}

	// Exact blacklist match is terminal
	for _, d := range s.blacklist.BlacklistedDomains {
		if domain == d {
			verdict.Reasons = append(verdict.Reasons, "domain in blacklist")
			verdict.Confidence = 100
			verdict.Category = "blacklisted"
			verdict.Suspicious = true
			return verdict
		}
	}

	score := 0
	setCategory := func(c string) {
		if verdict.Category == "" {
			verdict.Category = c
		}
	}

	for _, tld := range s.blacklist.SuspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			verdict.Reasons = append(verdict.Reasons, "suspicious TLD: "+tld)
			score += 30
			setCategory("suspicious_tld")
			break
		}
	}

	for _, pattern := range s.blacklist.SuspiciousPatterns {
		if strings.Contains(domain, pattern) {
			verdict.Reasons = append(verdict.Reasons, "suspicious hosting: "+pattern)
			score += 40
			setCategory("suspicious_host")
			break
		}
	}

	var keywordsFound []string
	for _, kw := range s.blacklist.SuspiciousKeywords {
		if strings.Contains(normalized, kw) {
			keywordsFound = append(keywordsFound, kw)
		}
	}
	if len(keywordsFound) > 0 {
		shown := keywordsFound
		if len(shown) > 3 {
			shown = shown[:3]
		}
		verdict.Reasons = append(verdict.Reasons, "suspicious keywords: "+strings.Join(shown, ", "))
		kwScore := 10 * len(keywordsFound)
		if kwScore > 30 {
			kwScore = 30
		}
		score += kwScore
		setCategory("suspicious_content")
	}

	if matches := detectTyposquatting(domain); len(matches) > 0 {
		verdict.Reasons = append(verdict.Reasons, "possible typosquatting: "+strings.Join(matches, ", "))
		score += 50
		setCategory("typosquatting")
	}

	if ipDomainPattern.MatchString(domain) {
		verdict.Reasons = append(verdict.Reasons, "IP address used as domain")
		score += 40
		setCategory("ip_domain")
	}

	if dots := strings.Count(domain, "."); dots > 3 {
		verdict.Reasons = append(verdict.Reasons, fmt.Sprintf("excessive subdomains (%d)", dots))
		score += 20
		setCategory("subdomain_abuse")
	}

	if len(domain) > 50 {
		verdict.Reasons = append(verdict.Reasons, fmt.Sprintf("unusually long domain (%d chars)", len(domain)))
		score += 15
		setCategory("obfuscation")
	}

	if score > 100 {
		score = 100
	}
	verdict.Confidence = score
	verdict.Suspicious = score >= suspicionThreshold
	return verdict
}

// ExtractURLs pulls every URL-like substring out of a message: full
// URLs, known shortener paths, and bare domain-looking tokens. Shared
// by the detection tier and the extraction engine so both sides see
// the same URL set.
func ExtractURLs(text string) []string {
	seen := make(map[string]struct{})
	var urls []string

	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	full := fullURLPattern.FindAllString(text, -1)
	for _, match := range full {
		add(match)
	}

	// bare-domain and shortener matches inside an already-captured full
	// URL are the same URL, not a new one
	partOfFull := func(m string) bool {
		for _, f := range full {
			if strings.Contains(f, m) {
				return true
			}
		}
		return false
	}

	for _, match := range shortURLPattern.FindAllString(text, -1) {
		if !partOfFull(match) {
			add("http://" + match)
		}
	}
	for _, match := range domainPattern.FindAllString(text, -1) {
		if strings.Contains(match, ".") && !partOfFull(match) {
			add("http://" + match)
		}
	}
	return urls
}

// ExtractURLs is the method form of the package-level extraction
func (s *URLScorer) ExtractURLs(text string) []string {
	return ExtractURLs(text)
}

// ScoreMessage scores every URL in a message and reports the maximum
// per-URL confidence as the message-level verdict.
func (s *URLScorer) ScoreMessage(message string) MessageURLVerdict {
	urls := s.ExtractURLs(message)
	if len(urls) == 0 {
		return MessageURLVerdict{}
	}

	out := MessageURLVerdict{HasURLs: true}
	for _, u := range urls {
		verdict := s.Score(u)
		out.Results = append(out.Results, verdict)
		if verdict.Confidence > out.Confidence {
			out.Confidence = verdict.Confidence
		}
	}
	out.Suspicious = out.Confidence >= suspicionThreshold
	return out
}

// detectTyposquatting checks a domain against the fixed brand list
func detectTyposquatting(domain string) []string {
	parts := strings.Split(domain, ".")
	name := parts[0]

	var matches []string
	for _, brand := range popularBrands {
		if name == brand {
			continue
		}
		if isSimilar(name, brand) {
			matches = append(matches, brand)
		} else if strings.Contains(domain, brand) && !strings.HasSuffix(domain, "."+brand+".com") {
			matches = append(matches, brand)
		}
		if len(matches) == 3 {
			break
		}
	}
	return matches
}

// isSimilar is a cheap typosquatting heuristic: equality after
// character-substitution normalization, or at most two positional
// differences on near-equal-length strings.
func isSimilar(a, b string) bool {
	replacer := strings.NewReplacer("-", "", "_", "", "0", "o", "1", "l")
	if replacer.Replace(a) == replacer.Replace(b) {
		return true
	}

	if abs(len(a)-len(b)) <= 2 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		diff := 0
		for i := 0; i < n; i++ {
			if a[i] != b[i] {
				diff++
			}
		}
		if diff > 0 && diff <= 2 {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
